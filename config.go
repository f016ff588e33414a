package crud

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
)

const (
	DefaultHost = `localhost`
	DefaultPort = 5432
)

/*
Connection parameters for Postgres. Every field is passed to the driver
verbatim; see `Config.DSN`. Zero `Host` and `Port` fall back on `DefaultHost`
and `DefaultPort`. Empty `SSLMode` leaves the driver default in place.
*/
type Config struct {
	Host     string
	Port     int
	DBName   string
	User     string
	Password string
	SSLMode  string
}

/*
Builds a "postgres://" URL for `pgx.Connect`. User and password are escaped as
URL user info, which keeps arbitrary characters intact.
*/
func (self Config) DSN() string {
	host := self.Host
	if host == `` {
		host = DefaultHost
	}
	port := self.Port
	if port == 0 {
		port = DefaultPort
	}

	out := url.URL{
		Scheme: `postgres`,
		Host:   net.JoinHostPort(host, strconv.Itoa(port)),
		Path:   `/` + self.DBName,
	}

	if self.User != `` || self.Password != `` {
		if self.Password != `` {
			out.User = url.UserPassword(self.User, self.Password)
		} else {
			out.User = url.User(self.User)
		}
	}

	if self.SSLMode != `` {
		out.RawQuery = url.Values{`sslmode`: {self.SSLMode}}.Encode()
	}
	return out.String()
}

/*
Reads the config from environment variables via the provided getter, which is
usually `os.Getenv`; tests may use a map lookup instead. Recognized variables:

	DB_HOST
	DB_PORT
	DB_NAME
	DB_USER
	DB_PASSWORD
	DB_SSLMODE

Missing variables leave the corresponding fields at their defaults. A port that
isn't a positive integer is an error.
*/
func ConfigFromEnv(getenv func(string) string) (Config, error) {
	out := Config{
		Host:     getenv(`DB_HOST`),
		DBName:   getenv(`DB_NAME`),
		User:     getenv(`DB_USER`),
		Password: getenv(`DB_PASSWORD`),
		SSLMode:  getenv(`DB_SSLMODE`),
	}

	port := trimSpace(getenv(`DB_PORT`))
	if port != `` {
		val, err := strconv.Atoi(port)
		if err != nil || val <= 0 || val > 65535 {
			return out, Err{While: `reading config`, Cause: fmt.Errorf(`invalid DB_PORT %q`, port)}
		}
		out.Port = val
	}
	return out, nil
}
