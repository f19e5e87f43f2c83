package integration

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/cucumber/godog"
)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	server       *ServerInstance
	client       *http.Client
	response     *http.Response
	responseBody []byte
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{tc: tc}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if s.server != nil {
			s.server.Stop()
		}
		return ctx, err
	})

	// Background steps
	sc.Step(`^a fresh Orchestra installer is running$`, s.aFreshInstallerIsRunning)

	// Browser steps
	sc.Step(`^I visit "([^"]*)"$`, s.iVisit)
	sc.Step(`^I follow the redirect$`, s.iFollowTheRedirect)
	sc.Step(`^I submit the install form with email "([^"]*)", password "([^"]*)", fullname "([^"]*)" and site name "([^"]*)"$`, s.iSubmitTheInstallForm)

	// Response steps
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^I should be redirected to "([^"]*)"$`, s.iShouldBeRedirectedTo)
	sc.Step(`^the page should contain "([^"]*)"$`, s.thePageShouldContain)

	// Database steps
	sc.Step(`^there should be (\d+) users?$`, s.thereShouldBeUsers)
	sc.Step(`^user "([^"]*)" should have role "([^"]*)"$`, s.userShouldHaveRole)
	sc.Step(`^the option "([^"]*)" should contain "([^"]*)"$`, s.theOptionShouldContain)
}

// Background steps

func (s *StepsContext) aFreshInstallerIsRunning() error {
	dbURL, err := s.tc.CreateDatabase()
	if err != nil {
		return err
	}

	s.server, err = StartServer(s.tc, dbURL)
	if err != nil {
		return err
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return err
	}
	s.client = &http.Client{
		Jar:     jar,
		Timeout: 30 * time.Second,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return nil
}

// Browser steps

func (s *StepsContext) iVisit(path string) error {
	req, err := http.NewRequest("GET", s.server.ServerURL+path, nil)
	if err != nil {
		return err
	}
	return s.do(req)
}

func (s *StepsContext) iFollowTheRedirect() error {
	location := s.response.Header.Get("Location")
	if location == "" {
		return fmt.Errorf("expected a redirect, got status %d", s.response.StatusCode)
	}
	return s.iVisit(location)
}

func (s *StepsContext) iSubmitTheInstallForm(email, password, fullname, siteName string) error {
	form := url.Values{
		"email":     {email},
		"password":  {password},
		"fullname":  {fullname},
		"site_name": {siteName},
	}

	req, err := http.NewRequest("POST", s.server.ServerURL+"/install/create", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(req)
}

func (s *StepsContext) do(req *http.Request) error {
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}

	s.response = resp
	s.responseBody, err = io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return err
}

// Response steps

func (s *StepsContext) theResponseStatusShouldBe(expected int) error {
	if s.response.StatusCode != expected {
		return fmt.Errorf("expected status %d, got %d: %s", expected, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) iShouldBeRedirectedTo(path string) error {
	if s.response.StatusCode != http.StatusFound {
		return fmt.Errorf("expected a redirect to %s, got status %d", path, s.response.StatusCode)
	}
	if location := s.response.Header.Get("Location"); location != path {
		return fmt.Errorf("expected redirect to %s, got %s", path, location)
	}
	return nil
}

func (s *StepsContext) thePageShouldContain(text string) error {
	if !strings.Contains(string(s.responseBody), text) {
		return fmt.Errorf("expected page to contain %q, got: %s", text, string(s.responseBody))
	}
	return nil
}

// Database steps

func (s *StepsContext) thereShouldBeUsers(expected int) error {
	var count int64
	if err := s.server.DB.Raw(`SELECT count(*) FROM users`).Scan(&count).Error; err != nil {
		return err
	}
	if count != int64(expected) {
		return fmt.Errorf("expected %d users, got %d", expected, count)
	}
	return nil
}

func (s *StepsContext) userShouldHaveRole(email, role string) error {
	var exists bool
	err := s.server.DB.Raw(`
		SELECT EXISTS(
			SELECT 1 FROM users u
			JOIN user_role ur ON ur.user_id = u.id
			JOIN roles r ON r.id = ur.role_id
			WHERE u.email = ? AND r.name = ?
		)
	`, email, role).Scan(&exists).Error
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("user %s does not have role %s", email, role)
	}
	return nil
}

func (s *StepsContext) theOptionShouldContain(name, text string) error {
	var value string
	err := s.server.DB.Raw(`SELECT value FROM orchestra_options WHERE name = ?`, name).Scan(&value).Error
	if err != nil {
		return err
	}
	if !strings.Contains(value, text) {
		return fmt.Errorf("expected option %s to contain %q, got %q", name, text, value)
	}
	return nil
}
