// Package models contains GORM persistence models that map to database tables.
// Domain types stay free of ORM tags; each model converts to and from its
// aggregate with ToDomain / FromDomain, and repositories only ever read and
// write models.
package models
