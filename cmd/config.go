package cmd

// Config carries everything main reads from the environment. AmqpURL may be
// empty, in which case status events are not published.
type Config struct {
	HTTPPort     string
	DBHost       string
	DBPort       string
	DBUser       string
	DBPassword   string
	DBName       string
	DBSslMode    string
	PodDir       string
	CatalogsPath string
	AmqpURL      string
}
