package core

import "strings"

// AdapterConfig holds configuration for connecting to a database.
type AdapterConfig struct {
	Type     string
	Path     string
	Host     string
	Port     int
	Database string
	Username string
	Password string
	Schema   string
	Options  map[string]string
	Params   map[string]any
}

// DriverInfo describes the server behind a data source.
// It is filled once per data source by the dialect's driver-settings hook.
type DriverInfo struct {
	Dialect       string
	ServerVersion string
	Settings      map[string]string
}

// Setting returns a driver setting by case-insensitive name.
func (i *DriverInfo) Setting(name string) (string, bool) {
	if i == nil || i.Settings == nil {
		return "", false
	}
	v, ok := i.Settings[strings.ToLower(name)]
	return v, ok
}

// SetSetting records a driver setting under its lowercased name.
func (i *DriverInfo) SetSetting(name, value string) {
	if i.Settings == nil {
		i.Settings = make(map[string]string)
	}
	i.Settings[strings.ToLower(name)] = value
}
