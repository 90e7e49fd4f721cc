package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2021-03-15", time.Date(2021, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"2021-03", time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"2019", time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"Jan 2020", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"September 2018", time.Date(2018, 9, 1, 0, 0, 0, 0, time.UTC)},
		{"2022-06-01T10:00:00Z", time.Date(2022, 6, 1, 10, 0, 0, 0, time.UTC)},
		{"Present", time.Time{}},
		{"", time.Time{}},
		{"sometime soon", time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.True(t, tt.want.Equal(ParseDate(tt.in).Time))
		})
	}
}

func TestDateUnmarshalJSON(t *testing.T) {
	var w WorkExperience
	require.NoError(t, json.Unmarshal([]byte(`{"startDate":"2020-02","endDate":"Present"}`), &w))

	require.NotNil(t, w.StartDate)
	assert.Equal(t, 2020, w.StartDate.Year())
	assert.Equal(t, time.February, w.StartDate.Month())
	require.NotNil(t, w.EndDate)
	assert.True(t, w.EndDate.IsZero())

	var d Date
	require.NoError(t, json.Unmarshal([]byte(`2017`), &d))
	assert.Equal(t, 2017, d.Year())
}

func TestDateBSON(t *testing.T) {
	in := struct {
		At   Date `bson:"at"`
		Gone Date `bson:"gone"`
	}{At: NewDate(time.Date(2023, 5, 2, 0, 0, 0, 0, time.UTC))}

	raw, err := bson.Marshal(in)
	require.NoError(t, err)

	assert.Equal(t, bson.TypeDateTime, bson.Raw(raw).Lookup("at").Type)
	assert.Equal(t, bson.TypeNull, bson.Raw(raw).Lookup("gone").Type)

	var out struct {
		At   Date `bson:"at"`
		Gone Date `bson:"gone"`
	}
	require.NoError(t, bson.Unmarshal(raw, &out))
	assert.True(t, in.At.Equal(out.At.Time))
	assert.True(t, out.Gone.IsZero())
}

func TestLanguageUnmarshal(t *testing.T) {
	var langs []Language
	require.NoError(t, json.Unmarshal([]byte(`["German", {"language":"English","proficiency":"Fluent"}]`), &langs))

	assert.Equal(t, []Language{
		{Language: "German"},
		{Language: "English", Proficiency: "Fluent"},
	}, langs)
}

func TestJobSeekerUpdateSetFields(t *testing.T) {
	city := " Berlin "
	zip := "10115"
	skills := []string{"Go", " ", "Postgres"}
	u := &JobSeekerUpdate{
		Location:          &LocationUpdate{City: &city, ZipCode: &zip},
		Skills:            &skills,
		SalaryExpectation: &SalaryExpectation{Period: "year"},
	}

	set := u.SetFields()

	assert.Equal(t, "Berlin", set["location.city"])
	assert.Equal(t, "10115", set["location.zipCode"])
	assert.NotContains(t, set, "location")
	assert.NotContains(t, set, "location.street")
	assert.Equal(t, []string{"Go", "Postgres"}, set["skills"])
	assert.Equal(t, DefaultCurrency, set["salaryExpectation"].(SalaryExpectation).Currency)

	gotZip, ok := u.ZipCode()
	assert.True(t, ok)
	assert.Equal(t, "10115", gotZip)

	assert.True(t, (&JobSeekerUpdate{}).Empty())
	assert.True(t, (&JobSeekerUpdate{Location: &LocationUpdate{}}).Empty())
}
