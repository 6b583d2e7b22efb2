// Package models holds the gorm rows behind the domain aggregates. Each row
// type maps itself with ToDomain and FromDomain, so domain types carry no
// gorm tags.
//
// Calendar dates are varchar(10) YYYY-MM-DD strings, which keeps range
// queries lexicographic on both postgres and sqlite. Embedded lists are JSON
// columns (see json.go). Staff references are plain uuid columns without
// foreign keys.
package models
