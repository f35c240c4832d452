// Smoke test against a running server: go run ./scripts
// ADMIN_TOKEN must be an HS256 token with role=admin signed with the server's JWT_SECRET.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/fatih/color"
)

func baseURL() string {
	if v := os.Getenv("API_BASE_URL"); v != "" {
		return v
	}
	return "http://localhost:3000/api"
}

func prettyPrint(body []byte) {
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		fmt.Println(string(body))
		return
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

func sendRequest(method, url, token string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL()+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func step(title, method, url, token string, body interface{}) {
	color.Yellow("\n%s", title)
	resp, respBody, err := sendRequest(method, url, token, body)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	if resp.StatusCode >= 400 {
		color.Red("Status: %s", resp.Status)
	} else {
		color.Green("Status: %s", resp.Status)
	}
	prettyPrint(respBody)
}

func main() {
	adminToken := os.Getenv("ADMIN_TOKEN")
	query := "value proposition"
	if len(os.Args) > 1 {
		query = os.Args[1]
	}

	color.Cyan("🚀 Knowledge chat smoke test against %s", baseURL())

	if adminToken != "" {
		step("[ADMIN] Knowledge stats", http.MethodGet, "/admin/v1/knowledge/stats", adminToken, nil)
	} else {
		color.Yellow("\nADMIN_TOKEN not set, skipping admin endpoints")
	}

	step("[PUBLIC] Search", http.MethodPost, "/search/v1", "", map[string]string{"query": query})
	step("[PUBLIC] Chat", http.MethodPost, "/chat/v1", "", map[string]string{"message": query})

	color.Cyan("\n✅ Done")
}
