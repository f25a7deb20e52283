package enricher

import (
	"context"

	"htc-intelligence/internal/domain/entity"
)

// insightPair is one canned bilingual insight.
type insightPair struct {
	cn string
	en string
}

// fallbackPriority fixes the category lookup order: the first category in
// this list that appears in the item's category set decides the canned
// insight. The order favors the most actionable intelligence first.
var fallbackPriority = []string{
	"Macro Economy",
	"Visa Policy",
	"Aviation",
	"Luxury & Retail",
	"Consumption Trend",
	"Hospitality",
	"Cruise",
	"Tech",
	"Short Haul",
	"Long Haul",
	"Outbound Trend",
}

// fallbackInsights maps category labels to deterministic canned insights,
// used whenever the enrichment API is unreachable, returns garbage, or has
// no configured credential.
var fallbackInsights = map[string]insightPair{
	"Macro Economy": {
		cn: "宏观经济数据直接影响中国游客消费力。建议跟踪汇率与消费指标变化，动态调整夏威夷市场的定价与营销投放节奏。",
		en: "Macro indicators drive Chinese travel spending power. Track currency and consumption data to adjust Hawaii pricing and marketing cadence.",
	},
	"Visa Policy": {
		cn: "竞对免签/落地签政策持续扩大，夏威夷面临美签门槛的竞争压力。HTA 应加强签证便利化倡导，并突出「一次美签、多目的地」与品质长线体验，对冲短途免签目的地分流。",
		en: "Competing destinations keep expanding visa-free access while Hawaii carries the US visa hurdle. Advocate visa facilitation and position the one-visa multi-destination long-haul experience.",
	},
	"Aviation": {
		cn: "各目的地直飞、复航、增班加速，夏威夷需优先推动中美直航恢复与增班，并对比竞对航线密度与时刻，评估运力缺口。",
		en: "Rivals are adding nonstop capacity fast. Prioritize restoring China-Hawaii direct flights and benchmark competitor route density to size the capacity gap.",
	},
	"Luxury & Retail": {
		cn: "免税与奢侈品零售动态反映高消费客群流向。夏威夷可联动高端零售与度假体验，强化高客单价客源的目的地吸引力。",
		en: "Duty-free and luxury retail flows signal where high-spend travelers go. Bundle premium retail with resort experiences to capture high-value demand.",
	},
	"Consumption Trend": {
		cn: "高净值、定制游与利基市场增长影响客源结构。夏威夷可强化高端与定制产品线，与短途大众市场形成差异化。",
		en: "High-net-worth and customized travel niches are growing. Strengthen premium tailored products to differentiate from short-haul mass-market offers.",
	},
	"Hospitality": {
		cn: "酒店与度假村动态反映接待能力与价格走势。建议对比竞对目的地房价与开业节奏，评估夏威夷供给端竞争力。",
		en: "Hotel and resort moves reveal capacity and rate trends. Benchmark competitor openings and pricing to assess Hawaii's supply-side position.",
	},
	"Cruise": {
		cn: "邮轮市场复苏扩大目的地选择。夏威夷可探索邮轮与岛屿度假组合产品，承接偏好一程多站的中国客群。",
		en: "Cruise recovery widens destination choice. Explore cruise-plus-island packages to serve Chinese travelers favoring multi-stop itineraries.",
	},
	"Tech": {
		cn: "OTA 与数字渠道变化影响触达效率。建议优化在主要中文预订平台的内容与转化路径，降低决策摩擦。",
		en: "OTA and digital channel shifts change reach economics. Optimize content and conversion on major Chinese booking platforms to cut decision friction.",
	},
	"Short Haul": {
		cn: "日韩东南亚免签与短航程形成强分流。夏威夷需强调长线独特性与品质体验，并对比签证与航线便利度，明确差异化卖点。",
		en: "Short-haul Asia destinations pull volume with visa ease and short flights. Emphasize Hawaii's distinctive long-haul quality experience as the counterweight.",
	},
	"Long Haul": {
		cn: "澳新、欧美、中东长线目的地加强航线与营销。HTA 需与航司合作恢复中国—夏威夷直航，并对比竞对运力与接待能力，突出复苏节奏与差异化。",
		en: "Long-haul rivals are scaling routes and marketing. Partner with airlines on China-Hawaii service and highlight recovery pace versus competitor capacity.",
	},
	"Outbound Trend": {
		cn: "持续监测市场动态，结合签证、航线、目的地与消费趋势，调整夏威夷产品与营销策略。",
		en: "Keep monitoring outbound dynamics across visas, routes and spending trends to steer Hawaii product and marketing strategy.",
	},
}

// defaultInsight covers category sets that match nothing in the priority
// list (should not occur given the classifier's fallback rule).
var defaultInsight = insightPair{
	cn: "持续监测市场动态，结合签证、航线、目的地与消费趋势，调整夏威夷产品与营销策略。",
	en: "Keep monitoring outbound dynamics across visas, routes and spending trends to steer Hawaii product and marketing strategy.",
}

// cannedInsight picks the canned insight for a category set by first match
// in the fixed priority order.
func cannedInsight(categories []string) insightPair {
	set := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		set[c] = struct{}{}
	}
	for _, label := range fallbackPriority {
		if _, ok := set[label]; ok {
			return fallbackInsights[label]
		}
	}
	return defaultInsight
}

// fallbackEnrichment builds a complete deterministic Enrichment for an item:
// source-language title and summary pass through, insights come from the
// category lookup, sentiment keeps the classifier's value.
func fallbackEnrichment(item *entity.NewsItem) *entity.Enrichment {
	canned := cannedInsight(item.Categories)
	return &entity.Enrichment{
		TitleCN:   item.Title,
		SummaryCN: item.Summary,
		InsightCN: canned.cn,
		InsightEN: canned.en,
		Sentiment: item.Sentiment,
	}
}

// Fallback is the enricher used when no API credential is configured or the
// provider is "none". It performs no network calls.
type Fallback struct {
	metricsRecorder MetricsRecorder
}

// NewFallback creates a fallback-only enricher.
func NewFallback() *Fallback {
	return &Fallback{metricsRecorder: NewPrometheusMetrics()}
}

// Enrich returns the deterministic category-based enrichment. It never
// returns an error.
func (f *Fallback) Enrich(_ context.Context, item *entity.NewsItem, _ string) (*entity.Enrichment, error) {
	f.metricsRecorder.RecordEnrichment(OutcomeNoCredential, 0)
	return fallbackEnrichment(item), nil
}
