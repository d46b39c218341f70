package model

import (
	"encoding/json"
	"testing"
)

func TestHasTopic(t *testing.T) {
	q := Quest{Topics: []string{"gardening", "errands"}}

	if !q.HasTopic("gardening") {
		t.Error("Expected HasTopic(gardening) to be true")
	}
	if q.HasTopic("garden") {
		t.Error("Membership must be exact match, not prefix")
	}
	if q.HasTopic("") {
		t.Error("Empty topic must not match")
	}
}

func TestHasApplicant(t *testing.T) {
	q := Quest{Applicants: []string{"u1", "u2"}}
	if !q.HasApplicant("u2") {
		t.Error("Expected u2 to be an applicant")
	}
	if q.HasApplicant("u3") {
		t.Error("u3 is not an applicant")
	}
}

func TestLocationDescriptorDisplayName(t *testing.T) {
	tests := []struct {
		name string
		desc LocationDescriptor
		want string
	}{
		{"Empty", LocationDescriptor{}, "Unknown"},
		{"VillageWins", LocationDescriptor{Village: "Grantchester", Town: "Cambridge"}, "Grantchester"},
		{"TownOverCity", LocationDescriptor{Town: "Richmond", City: "London"}, "Richmond"},
		{"CountryOnly", LocationDescriptor{Country: "France"}, "France"},
		{"ProvinceOverState", LocationDescriptor{Province: "Utrecht", State: "NL"}, "Utrecht"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.desc.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLocationDescriptorIsEmpty(t *testing.T) {
	empty := LocationDescriptor{}
	if !empty.IsEmpty() {
		t.Error("Zero descriptor should be empty")
	}
	notEmpty := LocationDescriptor{Region: "Tuscany"}
	if notEmpty.IsEmpty() {
		t.Error("Descriptor with a region is not empty")
	}
}

func TestLocationDescriptorOmitsAbsentFields(t *testing.T) {
	// Absent fields must not serialize as placeholder text.
	b, err := json.Marshal(LocationDescriptor{Town: "London"})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(b) != `{"town":"London"}` {
		t.Errorf("Unexpected serialization: %s", b)
	}
}
