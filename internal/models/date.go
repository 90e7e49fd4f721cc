package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Date is a calendar date as it appears on resumes and in profile forms.
// The zero value means "absent" and is stored as null.
type Date struct {
	time.Time
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01",
	"2006/01/02",
	"01/2006",
	"Jan 2006",
	"January 2006",
	"Jan. 2006",
	"2006",
}

// ParseDate understands the layouts above. Open-ended markers such as
// "Present" and unrecognized input yield the zero Date.
func ParseDate(s string) Date {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "present", "current", "now", "ongoing":
		return Date{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{Time: t.UTC()}
		}
	}
	return Date{}
}

func NewDate(t time.Time) Date { return Date{Time: t.UTC()} }

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format("2006-01-02"))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = ParseDate(s)
		return nil
	}
	// bare year, ex: 2019
	year, err := strconv.Atoi(string(data))
	if err != nil || year < 1 || year > 9999 {
		*d = Date{}
		return nil
	}
	*d = Date{Time: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)}
	return nil
}

func (d Date) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if d.IsZero() {
		return bson.TypeNull, nil, nil
	}
	return bson.MarshalValue(d.Time)
}

func (d *Date) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	if t == bson.TypeNull || t == bson.TypeUndefined {
		*d = Date{}
		return nil
	}
	var tm time.Time
	if err := (bson.RawValue{Type: t, Value: data}).Unmarshal(&tm); err != nil {
		return err
	}
	*d = Date{Time: tm.UTC()}
	return nil
}
