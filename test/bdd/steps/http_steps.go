package steps

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/cucumber/godog"
	"github.com/rs/zerolog"

	"github.com/andrescamacho/searoutes-go/internal/adapters/httpapi"
	"github.com/andrescamacho/searoutes-go/internal/adapters/idempotency"
)

// httpState drives the real router in process, sharing the world's
// mediator and mock clock
type httpState struct {
	handler   http.Handler
	responses []*httptest.ResponseRecorder
}

func (wc *worldContext) theHTTPAPIIsServing() error {
	if err := wc.ensureWorld(); err != nil {
		return err
	}
	store, err := idempotency.NewStore(wc.cfg.Idempotency.TTL, wc.cfg.Idempotency.MaxEntries, wc.clock)
	if err != nil {
		return err
	}
	server := httpapi.New(httpapi.Config{
		Log:         zerolog.Nop(),
		Mediator:    wc.mediator,
		Server:      wc.cfg.Server,
		Idempotency: store,
	})
	wc.httpServer = &httpState{handler: server.Handler()}
	return nil
}

func (wc *worldContext) post(path string, body interface{}, key string) error {
	if wc.httpServer == nil {
		return fmt.Errorf("the HTTP API is not serving")
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set(httpapi.IdempotencyKeyHeader, key)
	}
	rec := httptest.NewRecorder()
	wc.httpServer.handler.ServeHTTP(rec, req)
	wc.httpServer.responses = append(wc.httpServer.responses, rec)
	return nil
}

func (wc *worldContext) postLoad(name string, amount int, commodity, key string) error {
	id, err := wc.vessel(name)
	if err != nil {
		return err
	}
	body := map[string]interface{}{"commodity": commodity, "amount": amount}
	return wc.post("/api/vessels/"+id+"/load", body, key)
}

func (wc *worldContext) postsLoadWithKey(name string, amount int, commodity, key string) error {
	return wc.postLoad(name, amount, commodity, key)
}

func (wc *worldContext) postsLoadWithoutKey(name string, amount int, commodity string) error {
	return wc.postLoad(name, amount, commodity, "")
}

func (wc *worldContext) postsVoyageWithKey(name, portName, key string) error {
	id, err := wc.vessel(name)
	if err != nil {
		return err
	}
	destination, err := wc.portID(portName)
	if err != nil {
		return err
	}
	return wc.post("/api/vessels/"+id+"/travel", map[string]string{"destinationPortId": destination}, key)
}

func (wc *worldContext) lastHTTPResponse() (*httptest.ResponseRecorder, error) {
	if wc.httpServer == nil || len(wc.httpServer.responses) == 0 {
		return nil, fmt.Errorf("no HTTP response recorded")
	}
	return wc.httpServer.responses[len(wc.httpServer.responses)-1], nil
}

func (wc *worldContext) theResponseStatusShouldBe(status int) error {
	rec, err := wc.lastHTTPResponse()
	if err != nil {
		return err
	}
	if rec.Code != status {
		return fmt.Errorf("expected status %d, got %d: %s", status, rec.Code, rec.Body.String())
	}
	return nil
}

func (wc *worldContext) theResponseShouldBeAReplay() error {
	rec, err := wc.lastHTTPResponse()
	if err != nil {
		return err
	}
	if rec.Header().Get(httpapi.ReplayedHeader) != "true" {
		return fmt.Errorf("expected a replayed response")
	}
	if len(wc.httpServer.responses) < 2 {
		return fmt.Errorf("a replay needs an earlier response")
	}
	first := wc.httpServer.responses[len(wc.httpServer.responses)-2]
	if !bytes.Equal(first.Body.Bytes(), rec.Body.Bytes()) {
		return fmt.Errorf("replayed body differs:\n%s\n%s", first.Body.String(), rec.Body.String())
	}
	return nil
}

func (wc *worldContext) theResponseShouldNotBeAReplay() error {
	rec, err := wc.lastHTTPResponse()
	if err != nil {
		return err
	}
	if rec.Header().Get(httpapi.ReplayedHeader) != "" {
		return fmt.Errorf("expected a fresh response, got a replay")
	}
	return nil
}

func (wc *worldContext) theResponseCodeShouldBe(code string) error {
	rec, err := wc.lastHTTPResponse()
	if err != nil {
		return err
	}
	var body struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		return fmt.Errorf("failed to decode error body: %w", err)
	}
	if body.Code != code {
		return fmt.Errorf("expected error code %s, got %s", code, body.Code)
	}
	return nil
}

func registerHTTPSteps(sc *godog.ScenarioContext, wc *worldContext) {
	sc.Step(`^the HTTP API is serving the world$`, wc.theHTTPAPIIsServing)
	sc.Step(`^"([^"]*)" posts a load of (\d+) (\w+) with idempotency key "([^"]*)"$`, wc.postsLoadWithKey)
	sc.Step(`^"([^"]*)" posts a load of (\d+) (\w+) without an idempotency key$`, wc.postsLoadWithoutKey)
	sc.Step(`^"([^"]*)" posts a voyage to "([^"]*)" with idempotency key "([^"]*)"$`, wc.postsVoyageWithKey)
	sc.Step(`^the response status should be (\d+)$`, wc.theResponseStatusShouldBe)
	sc.Step(`^the response should be a replay of the previous one$`, wc.theResponseShouldBeAReplay)
	sc.Step(`^the response should not be a replay$`, wc.theResponseShouldNotBeAReplay)
	sc.Step(`^the response should carry code "([^"]*)"$`, wc.theResponseCodeShouldBe)
}
