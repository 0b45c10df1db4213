package migrations

func init() {
	Migrations.MustRegister(
		execFile("create_catalog.up.sql"),
		execFile("create_catalog.down.sql"),
	)
}
