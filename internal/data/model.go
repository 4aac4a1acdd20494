package data

// Movie represents the movies table
type Movie struct {
	ID          int64   `gorm:"primaryKey;autoIncrement"`
	Title       string  `gorm:"uniqueIndex;not null;size:250"`
	Year        int     `gorm:"not null"`
	Description string  `gorm:"not null;size:250"`
	Rating      float64 `gorm:"not null;index:idx_movies_rating"`
	Ranking     int     `gorm:"not null"`
	Review      string  `gorm:"not null;size:250"`
	ImgURL      string  `gorm:"column:img_url;not null;size:250"`
}

// TableName overrides the table name
func (Movie) TableName() string {
	return "movies"
}
