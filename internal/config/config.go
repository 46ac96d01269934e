// Package config carrega a configuração do portal a partir do
// ambiente, com .env opcional via godotenv.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

// URLBasePadrao é o backend de produção (mesmo da versão web).
const URLBasePadrao = "https://formatura-backend-production.up.railway.app/api"

type Config struct {
	// APIBase é a URL base do backend, sem barra final.
	APIBase string
	// ArquivoSessao sobrescreve o caminho do arquivo de sessão.
	ArquivoSessao string
	// SandboxPorta é a porta do backend sandbox local.
	SandboxPorta string
	// SandboxSegredo assina os tokens emitidos pelo sandbox.
	SandboxSegredo string
}

// Carregar lê .env (se existir) e monta a configuração.
func Carregar() Config {
	_ = godotenv.Load()

	cfg := Config{
		APIBase:        os.Getenv("FI_API_BASE"),
		ArquivoSessao:  os.Getenv("FI_SESSAO_ARQUIVO"),
		SandboxPorta:   os.Getenv("FI_SANDBOX_PORTA"),
		SandboxSegredo: os.Getenv("FI_SANDBOX_SEGREDO"),
	}
	if cfg.APIBase == "" {
		cfg.APIBase = URLBasePadrao
	}
	if cfg.SandboxPorta == "" {
		cfg.SandboxPorta = "8000"
	}
	if cfg.SandboxSegredo == "" {
		cfg.SandboxSegredo = "sandbox-local"
	}
	return cfg
}
