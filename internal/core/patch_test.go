package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPatchStatus(t *testing.T) {
	schema := DefaultSchema()

	patch, err := schema.BuildPatch(FieldStatus, "완료")
	require.NoError(t, err)
	prop, ok := patch[schema.StatusProp]
	require.True(t, ok)
	require.NotNil(t, prop.Status)
	assert.Equal(t, "완료", prop.Status.Name)
}

func TestBuildPatchCategory(t *testing.T) {
	schema := DefaultSchema()

	patch, err := schema.BuildPatch(FieldCategory, "Work")
	require.NoError(t, err)
	prop := patch[schema.CategoryProp]
	require.NotNil(t, prop.Select)
	assert.Equal(t, "Work", prop.Select.Name)
}

func TestBuildPatchDate(t *testing.T) {
	schema := DefaultSchema()

	patch, err := schema.BuildPatch(FieldDate, "2025-05-02")
	require.NoError(t, err)
	prop := patch[schema.DateProp]
	require.NotNil(t, prop.Date)
	assert.Equal(t, "2025-05-02", prop.Date.Start)
}

func TestBuildPatchNotes(t *testing.T) {
	schema := DefaultSchema()

	patch, err := schema.BuildPatch(FieldNotes, "우유 사기")
	require.NoError(t, err)
	prop := patch[schema.NotesProp]
	require.Len(t, prop.RichText, 1)
	require.NotNil(t, prop.RichText[0].Text)
	assert.Equal(t, "우유 사기", prop.RichText[0].Text.Content)
}

func TestBuildPatchAcceptsStorePropertyNames(t *testing.T) {
	schema := DefaultSchema()

	patch, err := schema.BuildPatch("상태", "완료")
	require.NoError(t, err)
	assert.Contains(t, patch, schema.StatusProp)
}

func TestBuildPatchUnsupportedField(t *testing.T) {
	_, err := DefaultSchema().BuildPatch("priority", "high")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedField)
	assert.Contains(t, err.Error(), "priority")
}
