package services_test

import (
	"testing"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/node"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
)

func TestStageNameMatcher_Matches(t *testing.T) {
	m := services.NewStageNameMatcher()

	testCases := []struct {
		name string
		a, b string
		want bool
	}{
		{"synonyms", "车缝", "缝制", true},
		{"different buckets", "裁剪", "车缝", false},
		{"exact after normalization", " Order  Created ", "ordercreated", true},
		{"containment", "成品入库", "入库", true},
		{"category bucket", "大货质检", "QC检验", true},
		{"english and chinese synonyms", "sewing", "缝纫", true},
		{"finishing is its own stage", "尾部", "车缝", false},
		{"ironing is not secondary process", "整烫", "二次工艺", false},
		{"empty never matches", "", "", false},
		{"blank never matches", "  ", "车缝", false},
		{"unrelated", "绣花", "包装", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, m.Matches(tc.a, tc.b))
			assert.Equal(t, tc.want, m.Matches(tc.b, tc.a), "must be symmetric")
		})
	}
}

func TestStageNameMatcher_Reflexive(t *testing.T) {
	m := services.NewStageNameMatcher()
	for _, name := range []string{"裁剪", "custom step 7", "二次工艺", "packaging"} {
		assert.True(t, m.Matches(name, name), name)
	}
}

func TestStageNameMatcher_Category(t *testing.T) {
	m := services.NewStageNameMatcher()

	assert.Equal(t, services.CategoryCutting, m.Category("裁床"))
	assert.Equal(t, services.CategoryQuality, m.Category("Quality Check"))
	assert.Equal(t, services.CategoryShipment, m.Category("warehousing"))
	assert.Equal(t, services.CategoryProcurement, m.Category("面料采购"))
	assert.Equal(t, services.NoCategory, m.Category("绣花"))
}

func TestStageNameMatcher_CanonicalNode(t *testing.T) {
	m := services.NewStageNameMatcher()

	testCases := []struct {
		input string
		want  node.Node
		ok    bool
	}{
		{"缝纫", node.Sewing, true},
		{"sewing", node.Sewing, true},
		{"QC", node.Quality, true},
		{"大烫", node.Ironing, true},
		{"后道", node.Finishing, true},
		{"二次加工", node.SecondaryProcess, true},
		{"裁床", node.Cutting, true},
		{"绣花", "", false},
		{"", "", false},
	}
	for _, tc := range testCases {
		got, ok := m.CanonicalNode(tc.input)
		assert.Equal(t, tc.ok, ok, tc.input)
		assert.Equal(t, tc.want, got, tc.input)
	}
}
