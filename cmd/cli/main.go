package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
	userID  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cajacentral-cli",
		Short: "Caja Central CLI tool",
		Long:  `A command line interface for interacting with the Caja Central API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Caja Central API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&userID, "user", "", "Acting user ID, sent as X-User-ID")

	// Ledger commands
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check the ledger chain against the stored balances",
		Run: func(cmd *cobra.Command, args []string) {
			checkConsistency()
		},
	}

	balancesCmd := &cobra.Command{
		Use:   "balances",
		Short: "Show every currency's running balance",
		Run: func(cmd *cobra.Command, args []string) {
			showBalances()
		},
	}

	ledgerCmd.AddCommand(consistencyCmd)
	ledgerCmd.AddCommand(balancesCmd)
	rootCmd.AddCommand(ledgerCmd)

	// Withdrawal commands
	withdrawalCmd := &cobra.Command{
		Use:   "withdrawal",
		Short: "Withdrawal operations",
	}

	receiveCmd := &cobra.Command{
		Use:   "receive [id]",
		Short: "Mark a withdrawal received at the central desk",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			transitionWithdrawal(args[0], "receive")
		},
	}

	rejectCmd := &cobra.Command{
		Use:   "reject [id]",
		Short: "Reject a pending withdrawal",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			transitionWithdrawal(args[0], "reject")
		},
	}

	withdrawalCmd.AddCommand(receiveCmd)
	withdrawalCmd.AddCommand(rejectCmd)
	rootCmd.AddCommand(withdrawalCmd)

	// Count commands
	countCmd := &cobra.Command{
		Use:   "count",
		Short: "Cash count operations",
	}

	submitCmd := &cobra.Command{
		Use:   "submit [CURRENCY=AMOUNT]...",
		Short: "Register a cash count with one counted total per currency",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			submitCount(args)
		},
	}

	countCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(countCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func checkConsistency() {
	body, status := get("/api/v1/ledger/consistency")

	if status != http.StatusOK {
		fmt.Printf("Consistency check FAILED (Status: %d)\nResponse: %s\n", status, string(body))
		os.Exit(1)
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Consistency check PASSED\n")
	if consistent, ok := result["consistent"].(bool); ok {
		fmt.Printf("Consistent: %v\n", consistent)
	}
}

func showBalances() {
	body, status := get("/api/v1/balances/")

	if status != http.StatusOK {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", status, string(body))
		os.Exit(1)
	}

	var balances []map[string]any
	if err := json.Unmarshal(body, &balances); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	for _, b := range balances {
		fmt.Printf("%s: %v\n", b["currency"], b["balance"])
	}
}

func transitionWithdrawal(id, action string) {
	if userID == "" {
		fmt.Println("--user is required for mutating operations")
		os.Exit(1)
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+"/api/v1/withdrawals/"+id+"/"+action, nil)
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("X-User-ID", userID)

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	fmt.Printf("Withdrawal %s: %s\n", action, string(body))
}

func submitCount(args []string) {
	if userID == "" {
		fmt.Println("--user is required for mutating operations")
		os.Exit(1)
	}

	type line struct {
		Currency     string `json:"currency"`
		CountedTotal string `json:"counted_total"`
	}

	lines := make([]line, 0, len(args))
	for _, arg := range args {
		currency, amount, ok := strings.Cut(arg, "=")
		if !ok {
			fmt.Printf("invalid line %q, expected CURRENCY=AMOUNT\n", arg)
			os.Exit(1)
		}
		lines = append(lines, line{Currency: currency, CountedTotal: amount})
	}

	payload, err := json.Marshal(map[string]any{"lines": lines})
	if err != nil {
		fmt.Printf("Failed to encode request: %v\n", err)
		os.Exit(1)
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+"/api/v1/counts/", bytes.NewReader(payload))
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", userID)

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusCreated {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	fmt.Printf("Count registered: %s\n", string(body))
}

func get(path string) ([]byte, int) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	return body, resp.StatusCode
}
