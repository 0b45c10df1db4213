package migrations

func init() {
	Migrations.MustRegister(
		execFile("seed_provinces.up.sql"),
		execFile("seed_provinces.down.sql"),
	)
}
