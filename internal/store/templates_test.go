package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrstudio/qrstudio/internal/model"
)

func TestTemplateCRUD(t *testing.T) {
	s := openTestStore(t)

	tpl := Template{
		Name: "corporate",
		Config: map[string]any{
			"foreground_color": "#003366",
			"gradient_start":   "#003366",
			"gradient_end":     "#0099FF",
			"gradient_type":    "linear",
		},
		Category: "branding",
	}
	id := s.SaveTemplate(tpl)
	require.NotZero(t, id)

	list := s.Templates("")
	require.Len(t, list, 1)
	saved := list[0]
	assert.Equal(t, id, saved.ID)
	assert.Equal(t, "corporate", saved.Name)
	assert.Equal(t, "branding", saved.Category)
	assert.Equal(t, "#003366", saved.Config["foreground_color"])
	assert.NotEmpty(t, saved.CreatedAt)

	got := s.Template(saved.ID)
	require.NotNil(t, got)
	assert.Equal(t, saved.Name, got.Name)

	// Re-saving under the same id replaces instead of duplicating.
	saved.Config["foreground_color"] = "#112233"
	assert.Equal(t, saved.ID, s.SaveTemplate(saved))
	require.Len(t, s.Templates(""), 1)
	assert.Equal(t, "#112233", s.Template(saved.ID).Config["foreground_color"])

	assert.Empty(t, s.Templates("other-category"))
	assert.Len(t, s.Templates("branding"), 1)

	assert.True(t, s.DeleteTemplate(saved.ID))
	assert.False(t, s.DeleteTemplate(saved.ID))
	assert.Nil(t, s.Template(saved.ID))
}

func TestSaveTemplate_StoreAssignsIntegerIDs(t *testing.T) {
	s := openTestStore(t)

	first := s.SaveTemplate(Template{Name: "a", Config: map[string]any{"size": 8}})
	second := s.SaveTemplate(Template{Name: "b", Config: map[string]any{"size": 9}})
	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(2), second)
}

func TestSaveTemplate_Defaults(t *testing.T) {
	s := openTestStore(t)

	require.NotZero(t, s.SaveTemplate(Template{Name: "plain", Config: map[string]any{"size": 12}}))
	list := s.Templates("")
	require.Len(t, list, 1)
	assert.Equal(t, "general", list[0].Category)
}

func TestTemplateAppliesToRecord(t *testing.T) {
	s := openTestStore(t)

	require.NotZero(t, s.SaveTemplate(Template{
		Name:   "styled",
		Config: map[string]any{"foreground_color": "#123456", "size": 14},
	}))
	tpl := s.Templates("")[0]

	r := model.New("payload", model.KindText)
	r.Apply(tpl.Config)
	assert.Equal(t, "#123456", r.ForegroundColor)
	assert.Equal(t, 14, r.Size)
}

func TestStatistics(t *testing.T) {
	s := openTestStore(t)

	for _, data := range []string{"aa", "bbbb"} {
		require.True(t, s.Save(model.New(data, model.KindURL)))
	}
	require.True(t, s.Save(model.New("cc", model.KindText)))
	require.NotZero(t, s.SaveTemplate(Template{Name: "x", Config: map[string]any{"size": 8}}))

	stats := s.Statistics()
	assert.Equal(t, 3, stats.TotalRecords)
	assert.Equal(t, 2, stats.ByKind["URL"])
	assert.Equal(t, 1, stats.ByKind["TEXT"])
	assert.Equal(t, 1, stats.TemplateCount)
	assert.InDelta(t, 8.0/3.0, stats.MeanPayloadBytes, 1e-9)

	total := 0
	for _, n := range stats.RecentPerDay {
		total += n
	}
	assert.Equal(t, 3, total, "records created now fall inside the 7-day window")
}

func TestStatistics_EmptyDatabase(t *testing.T) {
	s := openTestStore(t)

	stats := s.Statistics()
	assert.Zero(t, stats.TotalRecords)
	assert.Zero(t, stats.TemplateCount)
	assert.Empty(t, stats.ByKind)
	assert.Zero(t, stats.MeanPayloadBytes)
}
