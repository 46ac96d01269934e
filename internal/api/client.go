// Package api embrulha as chamadas ao backend de formatura: URL base
// fixa, Authorization Bearer quando há credencial e normalização de
// sucesso/erro num único resultado.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"
)

// Credencial fornece o token atual, se houver. Normalmente é o
// (*sessao.Store).Token.
type Credencial func() (string, bool)

type Client struct {
	base       string
	http       *http.Client
	credencial Credencial
}

// NovoClient monta o cliente para a URL base informada. credencial
// pode ser nil para endpoints públicos.
func NovoClient(base string, credencial Credencial) *Client {
	return &Client{
		base:       strings.TrimRight(base, "/"),
		http:       &http.Client{Timeout: 30 * time.Second},
		credencial: credencial,
	}
}

// corpoErro é o formato de erro que o backend costuma devolver.
type corpoErro struct {
	Erro    string `json:"error"`
	Detalhe string `json:"detail"`
}

// Do executa exatamente uma tentativa de metodo+caminho. corpo (se
// presente) vai como JSON; resposta (se não nil) recebe o JSON de
// sucesso. Falha vira *ErroAPI, nunca é engolida.
func (c *Client) Do(ctx context.Context, metodo, caminho string, corpo, resposta any) error {
	var leitor io.Reader
	if corpo != nil {
		raw, err := json.Marshal(corpo)
		if err != nil {
			return err
		}
		leitor = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, metodo, c.base+caminho, leitor)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.credencial != nil {
		if token, ok := c.credencial(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	res, err := c.http.Do(req)
	if err != nil {
		return &ErroAPI{Conexao: true, Mensagem: err.Error()}
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return &ErroAPI{Conexao: true, Mensagem: err.Error()}
	}

	// Corpo que não é JSON vira payload de falha com o texto cru.
	tipo, _, _ := mime.ParseMediaType(res.Header.Get("Content-Type"))
	ehJSON := strings.Contains(tipo, "json")

	if res.StatusCode < 200 || res.StatusCode > 299 {
		msg := "Erro na requisição."
		if ehJSON {
			var ce corpoErro
			if json.Unmarshal(raw, &ce) == nil {
				if ce.Erro != "" {
					msg = ce.Erro
				} else if ce.Detalhe != "" {
					msg = ce.Detalhe
				}
			}
		} else if texto := strings.TrimSpace(string(raw)); texto != "" {
			msg = texto
		}
		return &ErroAPI{Status: res.StatusCode, Mensagem: msg}
	}

	// Sucesso sem JSON também é falha: o texto cru vira a mensagem,
	// nunca um payload zerado entregue como resposta válida.
	if resposta != nil && len(raw) > 0 {
		if !ehJSON {
			msg := strings.TrimSpace(string(raw))
			if msg == "" {
				msg = "Erro na requisição."
			}
			return &ErroAPI{Status: res.StatusCode, Mensagem: msg}
		}
		if err := json.Unmarshal(raw, resposta); err != nil {
			return &ErroAPI{Status: res.StatusCode, Mensagem: "resposta inválida do backend: " + err.Error()}
		}
	}
	return nil
}

// Get é atalho para chamadas idempotentes sem corpo.
func (c *Client) Get(ctx context.Context, caminho string, resposta any) error {
	return c.Do(ctx, http.MethodGet, caminho, nil, resposta)
}

// Post é atalho para chamadas com corpo JSON.
func (c *Client) Post(ctx context.Context, caminho string, corpo, resposta any) error {
	return c.Do(ctx, http.MethodPost, caminho, corpo, resposta)
}
