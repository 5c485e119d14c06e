package models

type City struct {
	ID   int64  `json:"id"`
	Name string `json:"city_name" yaml:"name"`
}

// Hotel references its city by name, not by id.
type Hotel struct {
	ID   int64  `json:"id"`
	Name string `json:"hotel_name" yaml:"name"`
	City string `json:"city" yaml:"city"`
}

var DefaultCities = []string{"Hyderabad", "Vizag", "Bangalore", "Chennai", "Mumbai", "Delhi"}

var DefaultHotels = []Hotel{
	{Name: "Taj Hotel", City: "Hyderabad"},
	{Name: "The Park", City: "Vizag"},
	{Name: "ITC Gardenia", City: "Bangalore"},
	{Name: "The Leela Palace", City: "Chennai"},
	{Name: "The Oberoi", City: "Mumbai"},
	{Name: "The Imperial", City: "Delhi"},
}
