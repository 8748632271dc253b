package model

// VersionInfo contains the application version and the applied schema version.
type VersionInfo struct {
	AppVersion string `json:"app_version"`
	DbVersion  int64  `json:"db_version"`
}
