package main

import (
	"log"

	"github.com/FormaturaIntegrada/portal-aluno/internal/cli"
	"github.com/FormaturaIntegrada/portal-aluno/internal/config"
)

func main() {
	cfg := config.Carregar()
	if err := cli.NovoRaiz(cfg).Execute(); err != nil {
		log.Fatal(err)
	}
}
