package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringListDecoding(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		encoding ListEncoding
		want     []string
	}{
		{"array", `{"tags":["launch"," news ",""]}`, ListSequence, []string{"launch", "news"}},
		{"comma string", `{"tags":"launch, news ,promo"}`, ListDelimited, []string{"launch", "news", "promo"}},
		{"stringified array", `{"tags":"[\"a\",\" b\"]"}`, ListDelimited, []string{"a", "b"}},
		{"missing", `{}`, ListUnset, nil},
		{"null", `{"tags":null}`, ListUnset, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body struct {
				Tags StringList `json:"tags"`
			}
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &body))
			assert.Equal(t, tt.encoding, body.Tags.Encoding)
			assert.Equal(t, tt.want, body.Tags.Values())
		})
	}
}

func TestStringListRejectsNumbers(t *testing.T) {
	var body struct {
		Tags StringList `json:"tags"`
	}
	assert.Error(t, json.Unmarshal([]byte(`{"tags":42}`), &body))
}

func TestBoolInputDecoding(t *testing.T) {
	tests := []struct {
		payload string
		want    BoolInput
		wantErr bool
	}{
		{`{"v":true}`, BoolOf(true), false},
		{`{"v":"true"}`, BoolOf(true), false},
		{`{"v":"false"}`, BoolOf(false), false},
		{`{}`, BoolInput{}, false},
		{`{"v":"maybe"}`, BoolInput{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.payload, func(t *testing.T) {
			var body struct {
				V BoolInput `json:"v"`
			}
			err := json.Unmarshal([]byte(tt.payload), &body)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, body.V)
		})
	}
}

func TestCreatePostRequestNormalize(t *testing.T) {
	at := time.Date(2026, 11, 1, 9, 0, 0, 0, time.UTC)
	req := CreatePostRequest{
		Title:           "  Launch  ",
		Description:     " big day ",
		Tags:            Delimited("go, release"),
		TargetPlatforms: ListOf("Instagram", "twitter"),
		Category:        "technology",
		IsScheduled:     BoolOf(true),
		ScheduledAt:     &at,
	}

	in := req.Normalize()

	assert.Equal(t, "Launch", in.Title)
	assert.Equal(t, "big day", in.Description)
	assert.Equal(t, []string{"go", "release"}, in.Tags)
	assert.Equal(t, []string{"instagram", "twitter"}, in.TargetPlatforms)
	assert.Equal(t, "Technology", in.Category)
	assert.True(t, in.IsScheduled)
	assert.Equal(t, &at, in.ScheduledAt)
	assert.Equal(t, []string{}, in.MediaURLs)
}

func TestNormalizeCategoryFallsBackToOther(t *testing.T) {
	assert.Equal(t, "Other", NormalizeCategory(""))
	assert.Equal(t, "Other", NormalizeCategory("Astrology"))
	assert.Equal(t, "DIY & Crafts", NormalizeCategory("diy & crafts"))
}

func TestUpdatePostRequestNormalizeOnlySetsPresentFields(t *testing.T) {
	title := " New title "
	patch := UpdatePostRequest{Title: &title, Tags: Delimited("")}.Normalize()

	require.NotNil(t, patch.Title)
	assert.Equal(t, "New title", *patch.Title)
	require.NotNil(t, patch.Tags)
	assert.Empty(t, *patch.Tags)
	assert.Nil(t, patch.TargetPlatforms)
	assert.Nil(t, patch.IsScheduled)
	assert.Nil(t, patch.MediaURLs)
}

func TestPostCheck(t *testing.T) {
	at := time.Now()
	valid := func() Post {
		return Post{Title: "t", Description: "d", TargetPlatforms: []string{"instagram"}}
	}

	p := valid()
	assert.NoError(t, p.Check())

	p = valid()
	p.TargetPlatforms = nil
	assert.True(t, IsKind(p.Check(), KindValidation))

	p = valid()
	p.TargetPlatforms = []string{"myspace"}
	assert.True(t, IsKind(p.Check(), KindValidation))

	p = valid()
	p.IsScheduled = true
	assert.True(t, IsKind(p.Check(), KindValidation))

	p = valid()
	p.ScheduledAt = &at
	require.NoError(t, p.Check())
	assert.Nil(t, p.ScheduledAt, "unscheduled posts drop scheduledAt")
}
