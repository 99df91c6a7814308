// Package models contains the GORM persistence models of the wardrobe
// tables. Domain aggregates stay free of ORM tags; each model converts to
// and from its aggregate with ToDomain / FromDomain.
//
// Tables:
//   - clothing_items, outfit_looks, look_items: the wardrobe
//   - outfit_analyses, outfit_pieces: vision analysis runs and detected pieces
//   - recommendation_tracking: recommendations shown to users
package models
