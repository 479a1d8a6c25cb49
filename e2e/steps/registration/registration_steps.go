package registration

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cucumber/godog"
)

// TestContext is the surface the steps need from the suite harness.
type TestContext interface {
	POST(path string, body any) error
	GET(path string, headers map[string]string) error
	GetResponseField(field string) (any, error)
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
	GenerateAddressPair() error
	EthAddress() string
	RgbAddress() string
	ValidSignature() string
}

// RegisterSteps registers the registration intake step definitions.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &registrationSteps{tc: tc}

	ctx.Step(`^a unique address pair$`, steps.uniqueAddressPair)
	ctx.Step(`^I submit the registration$`, steps.submitRegistration)
	ctx.Step(`^I submit the same pair again$`, steps.submitSamePairAgain)
	ctx.Step(`^I submit a registration with ethAddress "([^"]*)"$`, steps.submitWithEthAddress)
	ctx.Step(`^I submit a registration with rgbAddress "([^"]*)"$`, steps.submitWithRgbAddress)
	ctx.Step(`^I submit a registration with a (\d+) character signature$`, steps.submitWithSignatureLength)
	ctx.Step(`^I submit a registration missing the "([^"]*)" field$`, steps.submitMissingField)
	ctx.Step(`^I ping the service$`, steps.pingService)
	ctx.Step(`^I request the registration list$`, steps.requestList)

	ctx.Step(`^the response status should be (\d+)$`, steps.responseStatusShouldBe)
	ctx.Step(`^the response body should be "([^"]*)"$`, steps.responseBodyShouldBe)
	ctx.Step(`^the response should acknowledge success$`, steps.responseShouldAcknowledgeSuccess)
	ctx.Step(`^the response error should be "([^"]*)"$`, steps.responseErrorShouldBe)
	ctx.Step(`^the list should contain the submitted pair$`, steps.listShouldContainPair)
}

type registrationSteps struct {
	tc TestContext
}

func (s *registrationSteps) submission() map[string]any {
	return map[string]any{
		"ethAddress": s.tc.EthAddress(),
		"rgbAddress": s.tc.RgbAddress(),
		"signature":  s.tc.ValidSignature(),
		"message":    "e2e claim",
	}
}

func (s *registrationSteps) uniqueAddressPair() error {
	return s.tc.GenerateAddressPair()
}

func (s *registrationSteps) submitRegistration() error {
	return s.tc.POST("/submit", s.submission())
}

func (s *registrationSteps) submitSamePairAgain() error {
	return s.tc.POST("/submit", s.submission())
}

func (s *registrationSteps) submitWithEthAddress(ethAddress string) error {
	body := s.submission()
	body["ethAddress"] = ethAddress
	return s.tc.POST("/submit", body)
}

func (s *registrationSteps) submitWithRgbAddress(rgbAddress string) error {
	body := s.submission()
	body["rgbAddress"] = rgbAddress
	return s.tc.POST("/submit", body)
}

func (s *registrationSteps) submitWithSignatureLength(length int) error {
	body := s.submission()
	body["signature"] = strings.Repeat("a", length)
	return s.tc.POST("/submit", body)
}

func (s *registrationSteps) submitMissingField(field string) error {
	body := s.submission()
	delete(body, field)
	return s.tc.POST("/submit", body)
}

func (s *registrationSteps) pingService() error {
	return s.tc.GET("/ping", nil)
}

func (s *registrationSteps) requestList() error {
	return s.tc.GET("/registrations", nil)
}

func (s *registrationSteps) responseStatusShouldBe(status int) error {
	if got := s.tc.GetLastResponseStatus(); got != status {
		return fmt.Errorf("expected status %d, got %d: %s", status, got, s.tc.GetLastResponseBody())
	}
	return nil
}

func (s *registrationSteps) responseBodyShouldBe(expected string) error {
	got := strings.TrimSpace(string(s.tc.GetLastResponseBody()))
	if got != expected {
		return fmt.Errorf("expected body %q, got %q", expected, got)
	}
	return nil
}

func (s *registrationSteps) responseShouldAcknowledgeSuccess() error {
	v, err := s.tc.GetResponseField("success")
	if err != nil {
		return err
	}
	if v != true {
		return fmt.Errorf("expected success=true, got %v", v)
	}
	for _, field := range []string{"message", "ethAddress", "rgbAddress", "timestamp"} {
		if _, err := s.tc.GetResponseField(field); err != nil {
			return err
		}
	}
	return nil
}

func (s *registrationSteps) responseErrorShouldBe(code string) error {
	v, err := s.tc.GetResponseField("error")
	if err != nil {
		return err
	}
	if v != code {
		return fmt.Errorf("expected error %q, got %v", code, v)
	}
	return nil
}

func (s *registrationSteps) listShouldContainPair() error {
	var payload struct {
		Success bool `json:"success"`
		Data    []struct {
			EthAddress string `json:"ethAddress"`
			RgbAddress string `json:"rgbAddress"`
		} `json:"data"`
	}
	if err := json.Unmarshal(s.tc.GetLastResponseBody(), &payload); err != nil {
		return fmt.Errorf("decode list response: %w", err)
	}
	for _, rec := range payload.Data {
		if rec.EthAddress == s.tc.EthAddress() && rec.RgbAddress == s.tc.RgbAddress() {
			return nil
		}
	}
	return fmt.Errorf("pair %s / %s not found among %d records",
		s.tc.EthAddress(), s.tc.RgbAddress(), len(payload.Data))
}
