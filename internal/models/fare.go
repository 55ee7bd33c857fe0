package models

// Route is a row of the routes table. A NULL fare means the default fare applies.
type Route struct {
	RouteID string `db:"route_id"`
	Name    string `db:"name"`
	Fare    *int64 `db:"fare"`
}

// FareSettings is the singleton row of the fare_settings table.
type FareSettings struct {
	DefaultFare int64  `db:"default_fare"`
	Floor       *int64 `db:"floor"`
}
