package migrations

func init() {
	Migrations.MustRegister(
		execFile("create_quizzes.up.sql"),
		execFile("create_quizzes.down.sql"),
	)
}
