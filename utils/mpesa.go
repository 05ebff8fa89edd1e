package utils

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"
)

func mpesaBaseURL() string {
	if url := os.Getenv("MPESA_BASE_URL"); url != "" {
		return url
	}
	return "https://sandbox.safaricom.co.ke"
}

// mpesaAccessToken fetches an OAuth token from the Daraja API.
func mpesaAccessToken() (string, error) {
	req, err := http.NewRequest("GET", mpesaBaseURL()+"/oauth/v1/generate?grant_type=client_credentials", nil)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(os.Getenv("MPESA_CONSUMER_KEY"), os.Getenv("MPESA_CONSUMER_SECRET"))

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("mpesa auth failed with status %d", resp.StatusCode)
	}

	var result struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	return result.AccessToken, nil
}

// Daraja wants the shortcode+passkey+timestamp base64 blob as the password.
func mpesaPassword(timestamp string) string {
	raw := os.Getenv("MPESA_SHORTCODE") + os.Getenv("MPESA_PASSKEY") + timestamp
	return base64.StdEncoding.EncodeToString([]byte(raw))
}

type stkPushResponse struct {
	CheckoutRequestID string `json:"CheckoutRequestID"`
	ResponseCode      string `json:"ResponseCode"`
	ResponseDesc      string `json:"ResponseDescription"`
}

// InitiateSTKPush asks Daraja to push a payment prompt to the given phone.
// It returns the CheckoutRequestID used to correlate the async callback.
func InitiateSTKPush(phone string, amount float64, reference string) (string, error) {
	token, err := mpesaAccessToken()
	if err != nil {
		return "", err
	}

	timestamp := time.Now().Format("20060102150405")
	payload, err := json.Marshal(map[string]interface{}{
		"BusinessShortCode": os.Getenv("MPESA_SHORTCODE"),
		"Password":          mpesaPassword(timestamp),
		"Timestamp":         timestamp,
		"TransactionType":   "CustomerPayBillOnline",
		"Amount":            int64(amount),
		"PartyA":            phone,
		"PartyB":            os.Getenv("MPESA_SHORTCODE"),
		"PhoneNumber":       phone,
		"CallBackURL":       os.Getenv("MPESA_CALLBACK_URL"),
		"AccountReference":  reference,
		"TransactionDesc":   "JengaEstate Platform Payment",
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest("POST", mpesaBaseURL()+"/mpesa/stkpush/v1/processrequest", bytes.NewBuffer(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("stk push failed with status %d", resp.StatusCode)
	}

	var result stkPushResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if result.ResponseCode != "0" {
		return "", fmt.Errorf("stk push rejected: %s", result.ResponseDesc)
	}

	return result.CheckoutRequestID, nil
}

// QuerySTKStatus asks Daraja whether an STK push completed. True only when
// the provider reports ResultCode 0.
func QuerySTKStatus(checkoutRequestID string) (bool, error) {
	token, err := mpesaAccessToken()
	if err != nil {
		return false, err
	}

	timestamp := time.Now().Format("20060102150405")
	payload, err := json.Marshal(map[string]interface{}{
		"BusinessShortCode": os.Getenv("MPESA_SHORTCODE"),
		"Password":          mpesaPassword(timestamp),
		"Timestamp":         timestamp,
		"CheckoutRequestID": checkoutRequestID,
	})
	if err != nil {
		return false, err
	}

	req, err := http.NewRequest("POST", mpesaBaseURL()+"/mpesa/stkpushquery/v1/query", bytes.NewBuffer(payload))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("STK status query returned status %d", resp.StatusCode)
		return false, fmt.Errorf("stk query failed with status %d", resp.StatusCode)
	}

	var result struct {
		ResultCode string `json:"ResultCode"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, err
	}
	return result.ResultCode == "0", nil
}
