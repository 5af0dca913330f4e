package models_test

import (
	"testing"

	"github.com/myoungji/website/internal/models"
	"github.com/stretchr/testify/require"
)

func TestCase_Clone(t *testing.T) {
	original := models.Case{
		ID:           "1",
		Requirements: []string{"a", "b"},
		Technologies: []string{"PLC"},
		Images:       []string{"https://example.com/1.jpg"},
	}
	clone := original.Clone()
	require.Equal(t, original, clone)

	clone.Requirements[0] = "changed"
	clone.Images = append(clone.Images, "https://example.com/2.jpg")
	require.Equal(t, "a", original.Requirements[0])
	require.Len(t, original.Images, 1)
}

func TestCase_CloneKeepsNilAndEmpty(t *testing.T) {
	require.Nil(t, models.Case{}.Clone().Images)
	require.NotNil(t, models.Case{Images: []string{}}.Clone().Images)
}

func TestCategories(t *testing.T) {
	require.Equal(t, "특장차 제어 시스템", models.DefaultCategory())
	require.True(t, models.IsCategory("공공기관 납품 사례"))
	require.False(t, models.IsCategory("전체"))
}
