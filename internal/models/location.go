package models

// Location is a GeoJSON Point. Coordinates are [longitude, latitude].
type Location struct {
	Type        string    `json:"type" bson:"type"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates"`
}

func NewPoint(longitude, latitude float64) *Location {
	return &Location{
		Type:        "Point",
		Coordinates: []float64{longitude, latitude},
	}
}

func (l *Location) IsValid() bool {
	if l == nil || l.Type != "Point" || len(l.Coordinates) != 2 {
		return false
	}
	longitude, latitude := l.Coordinates[0], l.Coordinates[1]
	return longitude >= -180 && longitude <= 180 && latitude >= -90 && latitude <= 90
}
