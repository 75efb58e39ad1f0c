package services

import (
	"slices"
	"strings"
	"unicode"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/node"
)

// Category is a coarse stage bucket. Two names in the same bucket match.
type Category string

const (
	NoCategory           Category = ""
	CategoryOrderCreated Category = "order_created"
	CategoryProcurement  Category = "procurement"
	CategoryCutting      Category = "cutting"
	CategoryQuality      Category = "quality"
	CategoryPackaging    Category = "packaging"
	CategoryIroning      Category = "ironing"
	CategoryProduction   Category = "production"
	CategoryShipment     Category = "shipment"
)

// Mandatory pre-production stages and the built-in fallback labels.
const (
	StageOrderCreated = "order created"
	StageProcurement  = "procurement"
	StageCutting      = "cutting"
	StageSewing       = "sewing"
)

// categoryKeywords is checked in order; the first bucket with a keyword
// contained in the normalized name wins.
var categoryKeywords = []struct {
	category Category
	keywords []string
}{
	{CategoryOrderCreated, []string{"下单", "订单创建", "创建订单", "开单", "ordercreated", "createorder"}},
	{CategoryProcurement, []string{"采购", "物料", "面料", "辅料", "备料", "到料", "procure", "purchas", "material"}},
	{CategoryQuality, []string{"质检", "检验", "品检", "验货", "查货", "quality", "inspect"}},
	{CategoryPackaging, []string{"包装", "打包", "装箱", "packag", "packing"}},
	{CategoryIroning, []string{"整烫", "大烫", "熨烫", "ironing"}},
	{CategoryCutting, []string{"裁剪", "裁床", "裁片", "裁切", "cutting"}},
	{CategoryProduction, []string{"车缝", "缝制", "缝纫", "车工", "生产", "sewing", "stitch", "production"}},
	{CategoryShipment, []string{"入库", "出库", "出货", "发货", "warehous", "shipment", "shipping", "deliver"}},
}

// synonymGroups hold names that are interchangeable.
var synonymGroups = [][]string{
	{"下单", "订单创建", "创建订单", "开单", "ordercreated"},
	{"采购", "物料采购", "面辅料采购", "备料", "procurement"},
	{"裁剪", "裁床", "裁片", "裁切", "cutting"},
	{"车缝", "缝制", "缝纫", "车工", "sewing"},
	{"尾部", "后整", "后道", "finishing"},
	{"整烫", "大烫", "熨烫", "ironing"},
	{"二次工艺", "二次加工", "secondary_process", "secondaryprocess"},
	{"质检", "检验", "品检", "验货", "查货", "quality", "qc"},
	{"包装", "打包", "装箱", "packaging"},
	{"入库", "成品入库", "warehousing"},
}

// StageNameMatcher compares operator-configured stage names.
//
// Matches is symmetric and reflexive for non-empty names. It is not
// guaranteed to be transitive for arbitrary strings because containment
// is not transitive.
type StageNameMatcher struct{}

// NewStageNameMatcher creates a StageNameMatcher.
func NewStageNameMatcher() StageNameMatcher {
	return StageNameMatcher{}
}

// Normalize trims, drops all whitespace and lower-cases a name.
func (StageNameMatcher) Normalize(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, name)
}

// Matches reports whether a and b name the same stage. Empty names never match.
func (m StageNameMatcher) Matches(a, b string) bool {
	na, nb := m.Normalize(a), m.Normalize(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return true
	}
	if synonyms(na, nb) {
		return true
	}
	ca := categoryOf(na)
	return ca != NoCategory && ca == categoryOf(nb)
}

// Category returns the bucket of name, or NoCategory.
func (m StageNameMatcher) Category(name string) Category {
	return categoryOf(m.Normalize(name))
}

// IndexOf returns the index of the first candidate matching name, or -1.
func (m StageNameMatcher) IndexOf(candidates []string, name string) int {
	for i, c := range candidates {
		if m.Matches(c, name) {
			return i
		}
	}
	return -1
}

// CanonicalNode maps a free-text name onto a canonical production node.
func (m StageNameMatcher) CanonicalNode(name string) (node.Node, bool) {
	n := m.Normalize(name)
	if n == "" {
		return "", false
	}
	for _, candidate := range node.All() {
		if n == string(candidate) || synonyms(n, m.Normalize(node.Label(candidate))) {
			return candidate, true
		}
	}
	for _, candidate := range node.All() {
		if m.Matches(name, node.Label(candidate)) {
			return candidate, true
		}
	}
	return "", false
}

func synonyms(na, nb string) bool {
	for _, group := range synonymGroups {
		if slices.Contains(group, na) && slices.Contains(group, nb) {
			return true
		}
	}
	return false
}

func categoryOf(normalized string) Category {
	if normalized == "" {
		return NoCategory
	}
	for _, bucket := range categoryKeywords {
		for _, kw := range bucket.keywords {
			if strings.Contains(normalized, kw) {
				return bucket.category
			}
		}
	}
	return NoCategory
}
