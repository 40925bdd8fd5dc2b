package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserProfile keeps a customer's default delivery information. It is updated
// from the profile endpoints, and by the webhook engine when an event carries
// save_info. Absence of a profile is never an error anywhere in the system.
type UserProfile struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username              string             `bson:"username" json:"username"`
	DefaultPhone          string             `bson:"defaultPhone,omitempty" json:"defaultPhone,omitempty"`
	DefaultCountry        string             `bson:"defaultCountry,omitempty" json:"defaultCountry,omitempty"`
	DefaultPostcode       string             `bson:"defaultPostcode,omitempty" json:"defaultPostcode,omitempty"`
	DefaultTownOrCity     string             `bson:"defaultTownOrCity,omitempty" json:"defaultTownOrCity,omitempty"`
	DefaultStreetAddress1 string             `bson:"defaultStreetAddress1,omitempty" json:"defaultStreetAddress1,omitempty"`
	DefaultStreetAddress2 string             `bson:"defaultStreetAddress2,omitempty" json:"defaultStreetAddress2,omitempty"`
	DefaultCounty         string             `bson:"defaultCounty,omitempty" json:"defaultCounty,omitempty"`
	UpdatedAt             time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// SetDefaults overwrites the profile's delivery defaults with a fresh set of
// shipping details and stamps the update time.
func (p *UserProfile) SetDefaults(phone, country, postcode, townOrCity, streetAddress1, streetAddress2, county string) {
	p.DefaultPhone = phone
	p.DefaultCountry = country
	p.DefaultPostcode = postcode
	p.DefaultTownOrCity = townOrCity
	p.DefaultStreetAddress1 = streetAddress1
	p.DefaultStreetAddress2 = streetAddress2
	p.DefaultCounty = county
	p.UpdatedAt = time.Now()
}
