package db_models

import "go.mongodb.org/mongo-driver/bson/primitive"

// GeoJSONPoint stores [longitude, latitude].
type GeoJSONPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

type PlaceAddress struct {
	Full     string `bson:"full" json:"full"`
	City     string `bson:"city,omitempty" json:"city,omitempty"`
	District string `bson:"district,omitempty" json:"district,omitempty"`
}

// Place is a document of the imported place catalog.
type Place struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ContentID   string             `bson:"contentId" json:"content_id"`
	Title       string             `bson:"title" json:"title"`
	Category    string             `bson:"category,omitempty" json:"category,omitempty"`
	Address     PlaceAddress       `bson:"address" json:"address"`
	Coordinates *GeoJSONPoint      `bson:"coordinates,omitempty" json:"coordinates,omitempty"`
}
