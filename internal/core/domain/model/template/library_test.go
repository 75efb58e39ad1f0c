package template_test

import (
	"testing"
	"time"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/kernel"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/template"
	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const processContent = `{"steps":[
	{"processCode":"C01","processName":"裁片","progressStage":"裁剪","unitPrice":0.5},
	{"processCode":"S01","processName":"上领","progressStage":"车缝","unitPrice":"1.20","machineType":"平车","standardTime":35},
	{"processCode":"S02","processName":"上袖","progressStage":"车缝","unitPrice":0.8},
	{"processCode":"F01","processName":"剪线头","unitPrice":0.1}
]}`

const progressContent = `{"nodes":[{"id":"n1","name":"裁剪","unitPrice":1},{"id":"","name":"车缝","unitPrice":2},{"name":"  "}]}`

func TestParseDocument(t *testing.T) {
	t.Run("steps group by progress stage", func(t *testing.T) {
		doc, err := template.ParseDocument([]byte(processContent))
		require.NoError(t, err)

		nodes := doc.ProgressNodes()
		require.Len(t, nodes, 3)
		assert.Equal(t, "裁剪", nodes[0].Name)
		assert.Equal(t, "车缝", nodes[1].Name)
		assert.Equal(t, "2", nodes[1].UnitPrice.String())
		assert.Equal(t, "S01", nodes[1].ID)
		assert.Equal(t, "剪线头", nodes[2].Name)

		steps := doc.ProcessSteps()
		require.Len(t, steps, 4)
		assert.Equal(t, "平车", steps[1].MachineType)
	})

	t.Run("legacy nodes", func(t *testing.T) {
		doc, err := template.ParseDocument([]byte(progressContent))
		require.NoError(t, err)

		nodes := doc.ProgressNodes()
		require.Len(t, nodes, 2)
		assert.Equal(t, "node-2", nodes[1].ID)

		steps := doc.ProcessSteps()
		require.Len(t, steps, 2)
		assert.Equal(t, "车缝", steps[1].ProgressStage)
	})

	t.Run("empty and malformed", func(t *testing.T) {
		doc, err := template.ParseDocument(nil)
		require.NoError(t, err)
		assert.True(t, doc.IsEmpty())

		_, err = template.ParseDocument([]byte(`{"nodes":`))
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestLibrary(t *testing.T) {
	tenant, _ := kernel.NewTenantID("factory-1")
	now := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	t.Run("new template starts at version 1", func(t *testing.T) {
		l, err := template.NewLibrary(kernel.NewUUID(), tenant, template.Process, "FZ001", "", []byte(processContent), now)

		require.NoError(t, err)
		assert.Equal(t, 1, l.Version())
		assert.False(t, l.IsDefault())
		assert.Equal(t, "FZ001-process", l.Name())
	})

	t.Run("default template", func(t *testing.T) {
		l, err := template.NewLibrary(kernel.NewUUID(), kernel.GlobalTenant, template.Progress, "", "house", []byte(progressContent), now)

		require.NoError(t, err)
		assert.True(t, l.IsDefault())
		assert.True(t, l.Tenant().IsGlobal())
	})

	t.Run("content must define a stage", func(t *testing.T) {
		_, err := template.NewLibrary(kernel.NewUUID(), tenant, template.Progress, "FZ001", "", []byte(`{"nodes":[]}`), now)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("locked template rejects revisions until unlocked", func(t *testing.T) {
		l, _ := template.NewLibrary(kernel.NewUUID(), tenant, template.Process, "FZ001", "", []byte(processContent), now)

		assert.True(t, l.Lock(now))
		assert.False(t, l.Lock(now))

		err := l.Revise("", []byte(progressContent), now)
		require.ErrorIs(t, err, template.ErrTemplateLocked)
		assert.Equal(t, 1, l.Version())

		assert.True(t, l.Unlock(now))
		require.NoError(t, l.Revise("v2", []byte(progressContent), now.Add(time.Hour)))
		assert.Equal(t, 2, l.Version())
		assert.Equal(t, "v2", l.Name())
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := template.ParseType("bom")
		require.Error(t, err)
	})
}
