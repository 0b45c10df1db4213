package cli

import (
	"time"

	"nusantara-culture-service/internal/domain"
)

// sampleProvinces seeds the in-memory catalog; Postgres gets the full list from migrations.
func sampleProvinces() []domain.Province {
	return []domain.Province{
		{Slug: "aceh", Name: "Aceh"},
		{Slug: "sumatera-barat", Name: "Sumatera Barat"},
		{Slug: "dki-jakarta", Name: "DKI Jakarta"},
		{Slug: "jawa-barat", Name: "Jawa Barat"},
		{Slug: "bali", Name: "Bali"},
		{Slug: "papua", Name: "Papua"},
	}
}

// sampleQuiz is a global quiz scheduled for the given local day.
func sampleQuiz(today time.Time) domain.Quiz {
	y, m, d := today.Date()
	return domain.Quiz{
		ID:            "sample-quiz",
		Title:         "Kuis Budaya Nusantara",
		ScheduledDate: time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		Questions: []domain.Question{
			{ID: "sample-q1", Position: 1, Prompt: "Tari Saman berasal dari provinsi?", Options: []string{"Aceh", "Bali", "Papua"}, CorrectIndex: 0},
			{ID: "sample-q2", Position: 2, Prompt: "Rendang adalah makanan khas?", Options: []string{"Jawa Barat", "Sumatera Barat"}, CorrectIndex: 1},
			{ID: "sample-q3", Position: 3, Prompt: "Tari Kecak berasal dari?", Options: []string{"Bali", "DKI Jakarta", "Aceh"}, CorrectIndex: 0},
		},
	}
}
