// Package fixtures provides test data generators for news pipeline testing.
package fixtures

import "strings"

// NewsOptions configures the generated news body text.
type NewsOptions struct {
	// Length is the approximate target length in runes. The generated
	// text lands within ±10% of this value.
	Length int
	// Language selects the sentence pool: "en" or "zh". Defaults to "zh".
	Language string
}

// GenerateNewsBody generates coherent news body text based on the provided
// options. The content reads like outbound-travel market coverage, suitable
// for excerpt truncation and enrichment testing.
//
// Example:
//
//	body := GenerateNewsBody(NewsOptions{Length: 2000, Language: "zh"})
func GenerateNewsBody(opts NewsOptions) string {
	if opts.Language == "en" {
		return generateFromPool(englishSentences, opts.Length)
	}
	return generateFromPool(chineseSentences, opts.Length)
}

// GenerateShortNews generates a short news body (~500 runes), typical of a
// feed summary.
func GenerateShortNews() string {
	return GenerateNewsBody(NewsOptions{Length: 500})
}

// GenerateMediumNews generates a medium news body (~2000 runes), typical of
// a full article page.
func GenerateMediumNews() string {
	return GenerateNewsBody(NewsOptions{Length: 2000})
}

// GenerateLongNews generates a long news body (~10000 runes), useful for
// testing excerpt truncation of extensive content.
func GenerateLongNews() string {
	return GenerateNewsBody(NewsOptions{Length: 10000})
}

var chineseSentences = []string{
	"中国出境游市场持续复苏，多家航空公司宣布加密国际航线。",
	"泰国、新加坡等东南亚目的地对中国游客实施免签政策后，预订量显著增长。",
	"在线旅游平台数据显示，长线目的地搜索热度稳步回升。",
	"豪华酒店集团加快在热门目的地的布局，瞄准高端客群。",
	"邮轮公司恢复以上海和天津为母港的国际航线。",
	"免税零售商报告称，出境游客的消费意愿正在回暖。",
	"旅游研究机构预测，下一个长假期间出境游人次将创近年新高。",
	"航空燃油成本波动对国际机票价格产生影响。",
	"目的地营销机构加大面向中国市场的数字营销投入。",
	"签证便利化措施被认为是影响目的地选择的关键因素之一。",
	"年轻游客更倾向于深度游和小众目的地体验。",
	"旅行社反映，定制游产品的咨询量明显上升。",
	"人民币汇率变化对出境游消费预算产生直接影响。",
	"机场口岸出入境客流量已恢复至疫情前水平。",
	"行业协会呼吁进一步扩大国际航班运力供给。",
}

var englishSentences = []string{
	"China's outbound travel market continues its recovery, with airlines adding international capacity.",
	"Visa-free policies in Thailand and Singapore have driven a clear rise in bookings from Chinese travelers.",
	"Online travel platforms report steadily growing search interest in long-haul destinations.",
	"Luxury hotel groups are expanding in popular destinations to capture high-end demand.",
	"Cruise lines have resumed international sailings homeported in Shanghai and Tianjin.",
	"Duty-free retailers report recovering spending appetite among outbound travelers.",
	"Industry researchers forecast record outbound trips over the next holiday period.",
	"Fuel cost volatility continues to influence international airfare levels.",
	"Destination marketing organizations are increasing digital spend aimed at the China market.",
	"Visa facilitation is considered a key factor in destination choice.",
	"Younger travelers favor in-depth itineraries and less crowded destinations.",
	"Travel agencies report a clear uptick in inquiries for tailor-made products.",
	"Exchange rate movements directly affect outbound travel budgets.",
	"Airport border crossings have returned to pre-pandemic passenger volumes.",
	"Industry associations are calling for further increases in international flight capacity.",
}

// generateFromPool cycles through the sentence pool until the text reaches
// the target length, stopping within ±10%.
func generateFromPool(sentences []string, targetLength int) string {
	var builder strings.Builder
	currentLength := 0
	index := 0

	for {
		sentence := sentences[index%len(sentences)]
		index++

		sentenceLength := len([]rune(sentence))
		if currentLength > 0 {
			sentenceLength++ // separator
		}
		potentialLength := currentLength + sentenceLength

		if currentLength >= int(float64(targetLength)*0.9) {
			if potentialLength > int(float64(targetLength)*1.1) {
				break
			}
		}

		if currentLength > 0 {
			builder.WriteString(" ")
		}
		builder.WriteString(sentence)
		currentLength = len([]rune(builder.String()))

		if currentLength >= targetLength {
			break
		}
	}

	return builder.String()
}
