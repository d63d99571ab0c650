// voiceclient is a smoke-test client for the Voice2CRM API. It uploads a
// recording to /transcribe and optionally submits the extracted lead to
// /send-to-hubspot/{clientID}.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

func main() {
	audioFile := flag.String("audio", "../../testdata/sample.wav", "Path to audio file")
	serverAddr := flag.String("server", "http://localhost:8080", "API server base URL")
	language := flag.String("language", "fr", "Language hint for transcription")
	clientID := flag.String("client", "", "HubSpot client ID; when set, the extracted lead is submitted")
	flag.Parse()

	client := &http.Client{Timeout: 120 * time.Second}

	transcript, lead, err := transcribe(client, *serverAddr, *audioFile, *language)
	if err != nil {
		log.Fatalf("Transcription failed: %v", err)
	}
	log.Printf("Transcript: %s", transcript)
	log.Printf("Lead: %s", lead)

	if *clientID == "" {
		return
	}

	results, err := submit(client, *serverAddr, *clientID, lead)
	if err != nil {
		log.Fatalf("Submission failed: %v", err)
	}
	log.Printf("Results: %s", results)
}

func transcribe(client *http.Client, server, path, language string) (string, json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", nil, err
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", nil, err
	}
	if _, err := io.Copy(fw, f); err != nil {
		return "", nil, err
	}
	if err := mw.WriteField("language", language); err != nil {
		return "", nil, err
	}
	mw.Close()

	resp, err := client.Post(server+"/transcribe", mw.FormDataContentType(), &buf)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, body)
	}

	var out struct {
		Transcription  string          `json:"transcription"`
		StructuredData json.RawMessage `json:"structured_data"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", nil, err
	}
	return out.Transcription, out.StructuredData, nil
}

func submit(client *http.Client, server, clientID string, lead json.RawMessage) (json.RawMessage, error) {
	resp, err := client.Post(server+"/send-to-hubspot/"+clientID, "application/json", bytes.NewReader(lead))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, body)
	}

	var out struct {
		Results json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}
