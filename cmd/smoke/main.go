package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const baseURL = "http://localhost:8000"

// Simplified DTOs for the script
type DemoTokenResponse struct {
	Data struct {
		Token string `json:"token"`
	} `json:"data"`
}

type SubmitQueryRequest struct {
	Question string   `json:"question"`
	MaxHops  int      `json:"max_hops"`
	Sources  []string `json:"sources,omitempty"`
}

type SubmitQueryResponse struct {
	Data struct {
		QueryID string `json:"query_id"`
		Status  string `json:"status"`
		Cached  bool   `json:"cached"`
		Result  struct {
			Answer    string `json:"answer"`
			GraphPath []string `json:"graph_path"`
			Citations []struct {
				Source     string  `json:"source"`
				URL        string  `json:"url"`
				Confidence float64 `json:"confidence"`
			} `json:"citations"`
		} `json:"result"`
	} `json:"data"`
}

func main() {
	fmt.Println("=== SecureAsk Smoke Client ===")

	token, err := fetchToken()
	if err != nil {
		log.Fatalf("Failed to get demo token: %v", err)
	}
	fmt.Println("Demo token acquired")

	testCases := []string{
		"What are Apple's biggest climate risks?",
		"What are Apple's biggest climate risks?", // resubmission should be cached
		"What does Reddit think about Tesla?",
	}

	for _, question := range testCases {
		fmt.Printf("\nQUESTION: %s\n", question)

		start := time.Now()
		res, err := submitQuery(token, question)
		elapsed := time.Since(start)

		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}

		fmt.Printf("STATUS: %s (cached=%v, %v)\n", res.Data.Status, res.Data.Cached, elapsed)
		fmt.Printf("PATH: %v\n", res.Data.Result.GraphPath)
		for _, c := range res.Data.Result.Citations {
			fmt.Printf("  [%s] %.2f %s\n", c.Source, c.Confidence, c.URL)
		}
		if res.Data.Result.Answer != "" {
			fmt.Printf("ANSWER: %s\n", res.Data.Result.Answer)
		}
	}
}

func fetchToken() (string, error) {
	resp, err := http.Post(baseURL+"/api/v1/auth/demo", "application/json", nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out DemoTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.Data.Token == "" {
		return "", fmt.Errorf("empty token in response")
	}
	return out.Data.Token, nil
}

func submitQuery(token, question string) (*SubmitQueryResponse, error) {
	body, _ := json.Marshal(SubmitQueryRequest{Question: question, MaxHops: 3})

	req, err := http.NewRequest("POST", baseURL+"/api/v1/query", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, raw)
	}

	var out SubmitQueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}
