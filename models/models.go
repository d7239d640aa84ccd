package models

// All lists every model for AutoMigrate, parents before children.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Category{},
		&Post{},
		&Like{},
		&Comment{},
		&UserPreference{},
	}
}
