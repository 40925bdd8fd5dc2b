package storage

import (
	"regexp"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"boutique/internal/checkout"
	"boutique/internal/models"
)

func sampleFingerprint() checkout.Fingerprint {
	return checkout.Fingerprint{
		FullName:       "Jane Doe",
		Email:          "jane@example.com",
		Phone:          "555-0100",
		Country:        "US",
		Postcode:       "94105",
		TownOrCity:     "San Francisco",
		StreetAddress1: "1 Market St",
		StreetAddress2: "",
		County:         "CA",
		GrandTotal:     49.99,
		OriginalCart:   `{"12": 2}`,
		PaymentRef:     "pi_123",
	}
}

func TestFingerprintFilterExactFields(t *testing.T) {
	filter := fingerprintFilter(sampleFingerprint())

	if got := filter["grandTotal"]; got != 49.99 {
		t.Errorf("grandTotal = %v, want exact 49.99", got)
	}
	if got := filter["originalCart"]; got != `{"12": 2}` {
		t.Errorf("originalCart = %v, want exact cart text", got)
	}
	if got := filter["stripePid"]; got != "pi_123" {
		t.Errorf("stripePid = %v, want exact pi_123", got)
	}
}

func TestFingerprintFilterTextualFieldsAnchoredCaseInsensitive(t *testing.T) {
	filter := fingerprintFilter(sampleFingerprint())

	for field, want := range map[string]string{
		"fullName":       "^Jane Doe$",
		"email":          "^jane@example\\.com$",
		"townOrCity":     "^San Francisco$",
		"streetAddress1": "^1 Market St$",
	} {
		re, ok := filter[field].(primitive.Regex)
		if !ok {
			t.Fatalf("%s filter = %T, want primitive.Regex", field, filter[field])
		}
		if re.Pattern != want {
			t.Errorf("%s pattern = %q, want %q", field, re.Pattern, want)
		}
		if re.Options != "i" {
			t.Errorf("%s options = %q, want i", field, re.Options)
		}
	}
}

func TestFingerprintFilterEmptyFieldMatchesAbsent(t *testing.T) {
	filter := fingerprintFilter(sampleFingerprint())

	v, ok := filter["streetAddress2"]
	if !ok {
		t.Fatal("streetAddress2 missing from filter; an empty field must still constrain the match")
	}
	if v != nil {
		t.Errorf("streetAddress2 filter = %v, want nil", v)
	}
}

// A materialized order must be findable by the fingerprint of its own
// event's redelivery. Blank fields have to land absent in the stored
// document, because the filter matches a blank only against absent-or-null.
func TestBlankFingerprintFieldsRoundTripAsAbsent(t *testing.T) {
	fp := sampleFingerprint()
	fp.FullName = ""
	fp.Phone = ""
	fp.Postcode = ""
	fp.TownOrCity = ""

	order := models.Order{
		OrderNumber:    "A1B2C3D4E5F60718293A4B5C6D7E8F90",
		FullName:       fp.FullName,
		Email:          fp.Email,
		Phone:          fp.Phone,
		Country:        fp.Country,
		Postcode:       fp.Postcode,
		TownOrCity:     fp.TownOrCity,
		StreetAddress1: fp.StreetAddress1,
		StreetAddress2: fp.StreetAddress2,
		County:         fp.County,
		GrandTotal:     fp.GrandTotal,
		OriginalCart:   fp.OriginalCart,
		StripePID:      fp.PaymentRef,
	}
	doc, err := bson.Marshal(order)
	if err != nil {
		t.Fatalf("marshal order: %v", err)
	}
	raw := bson.Raw(doc)

	filter := fingerprintFilter(fp)
	for _, field := range []string{"fullName", "email", "phone", "country", "postcode",
		"townOrCity", "streetAddress1", "streetAddress2", "county"} {
		_, lookupErr := raw.LookupErr(field)
		stored := lookupErr == nil
		if filter[field] == nil && stored {
			t.Errorf("%s: stored as %s but the redelivery filter only matches absent", field, raw.Lookup(field))
		}
		if filter[field] != nil && !stored {
			t.Errorf("%s: absent from the document but the redelivery filter expects a value", field)
		}
	}
}

func TestFingerprintFilterEscapesRegexMetacharacters(t *testing.T) {
	fp := sampleFingerprint()
	fp.FullName = "J. (Jay) Doe+"
	filter := fingerprintFilter(fp)

	re := filter["fullName"].(primitive.Regex)
	want := "^" + regexp.QuoteMeta("J. (Jay) Doe+") + "$"
	if re.Pattern != want {
		t.Errorf("pattern = %q, want %q", re.Pattern, want)
	}
	if matched, _ := regexp.MatchString("(?i)"+re.Pattern, "j. (jay) doe+"); !matched {
		t.Error("escaped pattern does not match its own literal")
	}
	if matched, _ := regexp.MatchString("(?i)"+re.Pattern, "JX (Jay) Doe+"); matched {
		t.Error("dot matched a non-literal character")
	}
}
