/*
Package envloader preenche structs de configuração a partir de variáveis
de ambiente, usando as tags "env" e "envDefault".

Tipos suportados: string, int (e variantes), bool e time.Duration.
Structs aninhadas são processadas recursivamente.

Exemplo de uso:

	type Config struct {
		Table string        `env:"TODOS_TABLE"`
		Port  int           `env:"PORT" envDefault:"8080"`
		TTL   time.Duration `env:"SIGNED_URL_EXPIRATION" envDefault:"5m"`
	}

	var cfg Config
	if err := envloader.Load(&cfg); err != nil {
		log.Fatal(err)
	}
*/
package envloader
