package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/orchestra/config"
	ConfigFileName    = "orchestra.yml"

	DefaultSiteName    = "Orchestra Platform"
	DefaultAdminRoleID = 1
)

// SupportedAuthDrivers lists the auth drivers the platform can seed an
// administrator for
var SupportedAuthDrivers = []string{"database"}

// MailConfig is the mail block copied into the "email" setting at install time
type MailConfig struct {
	Driver     string `yaml:"driver" json:"driver"`
	Host       string `yaml:"host" json:"host"`
	Port       int    `yaml:"port" json:"port"`
	Encryption string `yaml:"encryption" json:"encryption"`
	Username   string `yaml:"username" json:"username"`
	Password   string `yaml:"password" json:"password"`
	Sendmail   string `yaml:"sendmail" json:"sendmail"`
}

// AuthConfig describes the auth driver the installer seeds accounts for
type AuthConfig struct {
	Driver string `yaml:"driver" json:"driver"`
	Model  string `yaml:"model" json:"model"`
}

// RolesConfig names the roles the installer assigns
type RolesConfig struct {
	// Admin is the id of the role granted to the installed administrator
	Admin int64 `yaml:"admin" json:"admin"`
}

// InstallerConfig holds all installer configuration settings
type InstallerConfig struct {
	// Roles is read from the "roles" block, e.g. roles.admin
	Roles RolesConfig `yaml:"roles" json:"roles"`

	// SiteName is the default site name offered on the create form
	SiteName string `yaml:"site_name" json:"site_name"`

	// AllowMultipleAdmins skips the existing-user guard when creating the administrator
	AllowMultipleAdmins bool `yaml:"allow_multiple_admins" json:"allow_multiple_admins"`

	// DatabasePath and AppPath are searched, in that order, for installer hook files
	DatabasePath string `yaml:"database_path" json:"database_path"`
	AppPath      string `yaml:"app_path" json:"app_path"`

	// StoragePath must be writable for the installation to proceed
	StoragePath string `yaml:"storage_path" json:"storage_path"`

	// DataKey is a base64 AES key used to seal flash cookies
	DataKey string `yaml:"data_key" json:"-"`

	Mail MailConfig `yaml:"mail" json:"mail"`
	Auth AuthConfig `yaml:"auth" json:"auth"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// NewDefault returns a config with default values
func NewDefault() *InstallerConfig {
	return &InstallerConfig{
		Roles:               RolesConfig{Admin: DefaultAdminRoleID},
		SiteName:            DefaultSiteName,
		AllowMultipleAdmins: true,
		DatabasePath:        "database",
		AppPath:             "app",
		StoragePath:         "storage",
		Mail: MailConfig{
			Driver: "smtp",
			Host:   "localhost",
			Port:   25,
		},
		Auth: AuthConfig{
			Driver: "database",
			Model:  "users",
		},
		sources: make(map[string]string),
	}
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over file values.
func Load() (*InstallerConfig, error) {
	config := NewDefault()

	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	configPath := os.Getenv("ORCHESTRA_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig InstallerConfig
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig, data)
	}

	config.applyEnvConfig()

	return config, nil
}

func attributeNames() []string {
	return []string{
		"roles.admin", "site_name", "allow_multiple_admins",
		"database_path", "app_path", "storage_path", "data_key",
		"mail.driver", "mail.host", "mail.port",
		"auth.driver", "auth.model",
	}
}

func (c *InstallerConfig) applyFileConfig(file *InstallerConfig, raw []byte) {
	if file.Roles.Admin != 0 {
		c.Roles.Admin = file.Roles.Admin
		c.sources["roles.admin"] = "file"
	}
	if file.SiteName != "" {
		c.SiteName = file.SiteName
		c.sources["site_name"] = "file"
	}
	// a bool zero value is indistinguishable from "unset", so look for the key
	var keys map[string]interface{}
	if err := yaml.Unmarshal(raw, &keys); err == nil {
		if _, ok := keys["allow_multiple_admins"]; ok {
			c.AllowMultipleAdmins = file.AllowMultipleAdmins
			c.sources["allow_multiple_admins"] = "file"
		}
	}
	if file.DatabasePath != "" {
		c.DatabasePath = file.DatabasePath
		c.sources["database_path"] = "file"
	}
	if file.AppPath != "" {
		c.AppPath = file.AppPath
		c.sources["app_path"] = "file"
	}
	if file.StoragePath != "" {
		c.StoragePath = file.StoragePath
		c.sources["storage_path"] = "file"
	}
	if file.DataKey != "" {
		c.DataKey = file.DataKey
		c.sources["data_key"] = "file"
	}
	if file.Mail.Driver != "" {
		c.Mail = file.Mail
		c.sources["mail.driver"] = "file"
		c.sources["mail.host"] = "file"
		c.sources["mail.port"] = "file"
	}
	if file.Auth.Driver != "" {
		c.Auth.Driver = file.Auth.Driver
		c.sources["auth.driver"] = "file"
	}
	if file.Auth.Model != "" {
		c.Auth.Model = file.Auth.Model
		c.sources["auth.model"] = "file"
	}
}

func (c *InstallerConfig) applyEnvConfig() {
	if val := os.Getenv("ORCHESTRA_ADMIN_ROLE_ID"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			c.Roles.Admin = i
			c.sources["roles.admin"] = "environment"
		}
	}
	if val := os.Getenv("ORCHESTRA_SITE_NAME"); val != "" {
		c.SiteName = val
		c.sources["site_name"] = "environment"
	}
	if val := os.Getenv("ORCHESTRA_ALLOW_MULTIPLE_ADMINS"); val != "" {
		c.AllowMultipleAdmins = val == "true" || val == "1"
		c.sources["allow_multiple_admins"] = "environment"
	}
	if val := os.Getenv("ORCHESTRA_DATABASE_PATH"); val != "" {
		c.DatabasePath = val
		c.sources["database_path"] = "environment"
	}
	if val := os.Getenv("ORCHESTRA_APP_PATH"); val != "" {
		c.AppPath = val
		c.sources["app_path"] = "environment"
	}
	if val := os.Getenv("ORCHESTRA_STORAGE_PATH"); val != "" {
		c.StoragePath = val
		c.sources["storage_path"] = "environment"
	}
	if val := os.Getenv("ORCHESTRA_DATA_KEY"); val != "" {
		c.DataKey = val
		c.sources["data_key"] = "environment"
	}
	if val := os.Getenv("ORCHESTRA_MAIL_DRIVER"); val != "" {
		c.Mail.Driver = val
		c.sources["mail.driver"] = "environment"
	}
	if val := os.Getenv("ORCHESTRA_MAIL_HOST"); val != "" {
		c.Mail.Host = val
		c.sources["mail.host"] = "environment"
	}
	if val := os.Getenv("ORCHESTRA_MAIL_PORT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.Mail.Port = i
			c.sources["mail.port"] = "environment"
		}
	}
	if val := os.Getenv("ORCHESTRA_AUTH_DRIVER"); val != "" {
		c.Auth.Driver = val
		c.sources["auth.driver"] = "environment"
	}
	if val := os.Getenv("ORCHESTRA_AUTH_MODEL"); val != "" {
		c.Auth.Model = val
		c.sources["auth.model"] = "environment"
	}
}

// ConfigFilePath returns the path to the config file
func (c *InstallerConfig) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *InstallerConfig) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// IsAuthDriverSupported checks if the configured auth driver can hold an administrator
func (c *InstallerConfig) IsAuthDriverSupported() bool {
	for _, d := range SupportedAuthDrivers {
		if d == c.Auth.Driver {
			return true
		}
	}
	return false
}

// HookPaths returns the directories searched for installer hook files, in load order
func (c *InstallerConfig) HookPaths() []string {
	return []string{c.DatabasePath, c.AppPath}
}

// Validate validates the configuration
func (c *InstallerConfig) Validate() error {
	if c.Roles.Admin <= 0 {
		return fmt.Errorf("invalid roles.admin value: %d", c.Roles.Admin)
	}
	if strings.TrimSpace(c.SiteName) == "" {
		return fmt.Errorf("site_name must not be empty")
	}
	if c.Mail.Port < 0 || c.Mail.Port > 65535 {
		return fmt.Errorf("invalid mail.port value: %d", c.Mail.Port)
	}
	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *InstallerConfig) Attributes() []Attribute {
	dataKey := ""
	if c.DataKey != "" {
		dataKey = "(set)"
	}
	return []Attribute{
		{Name: "roles.admin", Value: strconv.FormatInt(c.Roles.Admin, 10), Source: c.Source("roles.admin")},
		{Name: "site_name", Value: c.SiteName, Source: c.Source("site_name")},
		{Name: "allow_multiple_admins", Value: strconv.FormatBool(c.AllowMultipleAdmins), Source: c.Source("allow_multiple_admins")},
		{Name: "database_path", Value: c.DatabasePath, Source: c.Source("database_path")},
		{Name: "app_path", Value: c.AppPath, Source: c.Source("app_path")},
		{Name: "storage_path", Value: c.StoragePath, Source: c.Source("storage_path")},
		{Name: "data_key", Value: dataKey, Source: c.Source("data_key")},
		{Name: "mail.driver", Value: c.Mail.Driver, Source: c.Source("mail.driver")},
		{Name: "mail.host", Value: c.Mail.Host, Source: c.Source("mail.host")},
		{Name: "mail.port", Value: strconv.Itoa(c.Mail.Port), Source: c.Source("mail.port")},
		{Name: "auth.driver", Value: c.Auth.Driver, Source: c.Source("auth.driver")},
		{Name: "auth.model", Value: c.Auth.Model, Source: c.Source("auth.model")},
	}
}

// FormatText returns a text representation of the configuration
func (c *InstallerConfig) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-30s %-30s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-30s %-30s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-30s %-30s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *InstallerConfig) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
