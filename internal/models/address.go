package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Address is a delivery address owned by one user. Disabled addresses keep
// their row with Status=false.
type Address struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	City                  string             `bson:"city" json:"city"`
	Department            string             `bson:"department" json:"department"`
	AddressDetail         string             `bson:"address_detail" json:"address_detail"`
	AdditionalInformation string             `bson:"additional_information" json:"additional_information"`
	Neighborhood          string             `bson:"neighborhood" json:"neighborhood"`
	Mobile                *int64             `bson:"mobile" json:"mobile"`
	Status                bool               `bson:"status" json:"status"`
	UserID                primitive.ObjectID `bson:"userId" json:"userId"`
	CreatedAt             time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt             time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// AddressFields are the user-editable parts of an address. On update, empty
// strings and a nil Mobile leave the stored value untouched.
type AddressFields struct {
	City                  string `bson:"city" json:"city"`
	Department            string `bson:"department" json:"department"`
	AddressDetail         string `bson:"address_detail" json:"address_detail"`
	AdditionalInformation string `bson:"additional_information" json:"additional_information"`
	Neighborhood          string `bson:"neighborhood" json:"neighborhood"`
	Mobile                *int64 `bson:"mobile" json:"mobile"`
}

// UpdateResult mirrors the counts a document store reports for an update.
type UpdateResult struct {
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}

// Set returns the stored keys an update changes.
func (f AddressFields) Set() map[string]any {
	set := map[string]any{}
	for key, v := range map[string]string{
		"city":                   f.City,
		"department":             f.Department,
		"address_detail":         f.AddressDetail,
		"additional_information": f.AdditionalInformation,
		"neighborhood":           f.Neighborhood,
	} {
		if v != "" {
			set[key] = v
		}
	}
	if f.Mobile != nil {
		set["mobile"] = *f.Mobile
	}
	return set
}

func (f AddressFields) ApplyTo(a *Address) {
	if f.City != "" {
		a.City = f.City
	}
	if f.Department != "" {
		a.Department = f.Department
	}
	if f.AddressDetail != "" {
		a.AddressDetail = f.AddressDetail
	}
	if f.AdditionalInformation != "" {
		a.AdditionalInformation = f.AdditionalInformation
	}
	if f.Neighborhood != "" {
		a.Neighborhood = f.Neighborhood
	}
	if f.Mobile != nil {
		m := *f.Mobile
		a.Mobile = &m
	}
}
