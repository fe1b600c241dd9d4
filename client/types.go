package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"letitbit/internal/balancer"
	"letitbit/internal/ftpupload"
	"letitbit/internal/rpc"
)

// Envelope is the {status, data} response of one batch
type Envelope = rpc.Envelope

// Params holds the named arguments of a call
type Params = rpc.Params

// Server is an upload server with its current load
type Server = balancer.Server

// Selector picks an upload server from the ranked list
type Selector = balancer.Selector

// SelectionPolicy names a built-in Selector
type SelectionPolicy = balancer.Policy

// FTPDialer opens FTP connections for uploads
type FTPDialer = ftpupload.Dialer

const (
	SelectLowestLoad = balancer.PolicyLowestLoad
	SelectRandom     = balancer.PolicyRandom
	SelectRoundRobin = balancer.PolicyRoundRobin
)

// DefaultProject is the project used by user and key operations
const DefaultProject = "letitbit.net"

// Protocol is a file transfer protocol offered by the service
type Protocol string

const (
	ProtocolFTP  Protocol = "ftp"
	ProtocolHTTP Protocol = "http"
)

// ParseProtocol parses a protocol name
func ParseProtocol(s string) (Protocol, error) {
	p := Protocol(s)
	if err := p.validate(); err != nil {
		return "", err
	}
	return p, nil
}

func (p Protocol) validate() error {
	switch p {
	case ProtocolFTP, ProtocolHTTP:
		return nil
	default:
		return &UnknownProtocolError{Protocol: string(p)}
	}
}

func (p Protocol) String() string {
	return string(p)
}

// Stage is the progress of the upload workflow for one protocol
type Stage int

const (
	StageIdle Stage = iota
	StageAuthDataFetched
	StageServerListFetched
	StageUploaded
	StageProcessed
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageAuthDataFetched:
		return "auth data fetched"
	case StageServerListFetched:
		return "server list fetched"
	case StageUploaded:
		return "uploaded"
	case StageProcessed:
		return "processed"
	default:
		return "stage(" + strconv.Itoa(int(s)) + ")"
	}
}

// KeyInfo holds usage statistics of the API key
type KeyInfo struct {
	Max           int64   `json:"max"`
	Current       int64   `json:"cur"`
	TotalRequests int64   `json:"total_requests"`
	TotalPoints   float64 `json:"total_points"`
}

// AuthData holds the credentials for FTP uploads
type AuthData struct {
	Login    string `json:"login"`
	Password string `json:"pass"`
}

// UploadResult identifies a hosted file
type UploadResult struct {
	Link string `json:"link"`
	UID  string `json:"uid"`
}

// MethodInfo describes a remote method
type MethodInfo struct {
	Description string  `json:"descr"`
	Cost        float64 `json:"cost"`
	Call        string  `json:"call"`
}

// Credentials identify a user of a project
type Credentials struct {
	Login    string
	Password string
	Project  string
}

func (c Credentials) params() rpc.Params {
	project := c.Project
	if project == "" {
		project = DefaultProject
	}
	return rpc.Params{
		"login":   c.Login,
		"pass":    c.Password,
		"project": project,
	}
}

// ListingOptions selects a page of the file manager listing
type ListingOptions struct {
	Limit  int
	Page   int
	Folder int64
}

func (o ListingOptions) params() rpc.Params {
	if o.Limit <= 0 {
		o.Limit = 50
	}
	if o.Page <= 0 {
		o.Page = 1
	}
	return rpc.Params{
		"limit":  o.Limit,
		"page":   o.Page,
		"folder": o.Folder,
	}
}

// Object is a loosely typed result record
type Object map[string]interface{}

// String returns the field as a string, formatting numbers when needed
func (o Object) String(key string) string {
	switch v := o[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// Int returns the field as an integer, or 0 when absent or not numeric
func (o Object) Int(key string) int64 {
	switch v := o[key].(type) {
	case float64:
		return int64(v)
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	default:
		return 0
	}
}

// Objects is a list of records. The server sends lists either as JSON arrays
// or as objects keyed by id; both decode into key order.
type Objects []Object

// UnmarshalJSON decodes an array of objects or an object of objects
func (o *Objects) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*o = nil
		return nil
	}

	if len(data) > 0 && data[0] == '{' {
		var keyed map[string]Object
		if err := json.Unmarshal(data, &keyed); err != nil {
			return err
		}
		keys := make([]string, 0, len(keyed))
		for k := range keyed {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		result := make(Objects, 0, len(keys))
		for _, k := range keys {
			result = append(result, keyed[k])
		}
		*o = result
		return nil
	}

	var list []Object
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*o = list
	return nil
}
