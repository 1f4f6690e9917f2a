package models

import (
	"encoding/json"
	"testing"
)

func TestNullString(t *testing.T) {
	t.Run("Unmarshal", func(t *testing.T) {
		tests := []struct {
			name  string
			input string
			valid bool
			value string
		}{
			{"Value", `"NewJeans"`, true, "NewJeans"},
			{"JSONNull", `null`, false, ""},
			{"EmptyString", `""`, false, ""},
			{"NullLiteral", `"null"`, false, ""},
			{"NullLiteralUpper", `"NULL"`, false, ""},
			{"NullLiteralPadded", `" null "`, false, ""},
			{"WordContainingNull", `"nullify"`, true, "nullify"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				var n NullString
				if err := json.Unmarshal([]byte(tt.input), &n); err != nil {
					t.Fatalf("Unmarshal(%s) failed: %v", tt.input, err)
				}
				if n.Valid != tt.valid {
					t.Errorf("Unmarshal(%s): Valid = %v, want %v", tt.input, n.Valid, tt.valid)
				}
				if n.Valid && n.Value != tt.value {
					t.Errorf("Unmarshal(%s): Value = %q, want %q", tt.input, n.Value, tt.value)
				}
			})
		}
	})

	t.Run("MarshalInvalidAsNull", func(t *testing.T) {
		data, err := json.Marshal(Null())
		if err != nil {
			t.Fatalf("Marshal failed: %v", err)
		}
		if string(data) != "null" {
			t.Errorf("Expected null, got %s", data)
		}
	})

	t.Run("MarshalValue", func(t *testing.T) {
		data, err := json.Marshal(String("aespa"))
		if err != nil {
			t.Fatalf("Marshal failed: %v", err)
		}
		if string(data) != `"aespa"` {
			t.Errorf("Expected \"aespa\", got %s", data)
		}
	})

	t.Run("Or", func(t *testing.T) {
		if got := String("x").Or("y"); got != "x" {
			t.Errorf("Expected x, got %s", got)
		}
		if got := Null().Or("y"); got != "y" {
			t.Errorf("Expected fallback y, got %s", got)
		}
	})
}

func TestAccountHasFolder(t *testing.T) {
	if (Account{Folder: String("folder_a")}).HasFolder() != true {
		t.Error("Assigned folder should report true")
	}
	if (Account{Folder: Null()}).HasFolder() {
		t.Error("Null folder should report false")
	}
	if (Account{Folder: String("null")}).HasFolder() {
		t.Error(`Folder "null" should normalize to unassigned`)
	}
}

func TestCatalogEntryUploadable(t *testing.T) {
	tests := []struct {
		name  string
		entry CatalogEntry
		want  bool
	}{
		{"HighWithTitle", CatalogEntry{Confidence: ConfidenceHigh, Title: String("Whiplash")}, true},
		{"HighNoTitle", CatalogEntry{Confidence: ConfidenceHigh, Title: Null()}, false},
		{"MediumWithTitle", CatalogEntry{Confidence: ConfidenceMedium, Title: String("Whiplash")}, false},
		{"LowWithTitle", CatalogEntry{Confidence: ConfidenceLow, Title: String("Whiplash")}, false},
		{"HighNoArtist", CatalogEntry{Confidence: ConfidenceHigh, Artist: Null(), Title: String("Whiplash")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entry.Uploadable(); got != tt.want {
				t.Errorf("Uploadable() = %v, want %v", got, tt.want)
			}
		})
	}
}
