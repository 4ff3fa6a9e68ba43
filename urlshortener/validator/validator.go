package validator

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/superj80820/url-shortener/domain"
	"golang.org/x/net/idna"
)

const (
	MaxURLLength = 2048

	localhost = "localhost"
)

var DefaultSchemes = []string{"http", "https", "ftp"}

type urlValidator struct {
	validate *validator.Validate
	schemes  map[string]bool
}

func CreateURLValidator(schemes ...string) domain.URLValidator {
	if len(schemes) == 0 {
		schemes = DefaultSchemes
	}
	allowSchemes := make(map[string]bool, len(schemes))
	for _, scheme := range schemes {
		allowSchemes[strings.ToLower(scheme)] = true
	}
	return &urlValidator{
		validate: validator.New(),
		schemes:  allowSchemes,
	}
}

// IsValidURL reports whether rawURL is an absolute URL with an allowed scheme,
// a host and an optional numeric port. Hosts are an IP, localhost or a fully
// qualified name, internationalized names included. The URL is not normalized.
func (u *urlValidator) IsValidURL(rawURL string) bool {
	if len(rawURL) > MaxURLLength || hasSpaceOrControl(rawURL) {
		return false
	}
	if err := u.validate.Var(rawURL, "required,url"); err != nil {
		return false
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if !u.schemes[strings.ToLower(parsedURL.Scheme)] {
		return false
	}

	if !u.isValidHost(parsedURL.Hostname()) {
		return false
	}

	if port := parsedURL.Port(); port != "" {
		portNumber, err := strconv.Atoi(port)
		if err != nil || portNumber < 1 || portNumber > 65535 {
			return false
		}
	}

	return true
}

func (u *urlValidator) isValidHost(host string) bool {
	if host == "" {
		return false
	}
	if strings.EqualFold(host, localhost) || u.validate.Var(host, "ip") == nil {
		return true
	}
	asciiHost, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return false
	}
	return u.validate.Var(asciiHost, "fqdn") == nil
}

func hasSpaceOrControl(rawURL string) bool {
	for i := 0; i < len(rawURL); i++ {
		if rawURL[i] <= ' ' || rawURL[i] == 0x7f {
			return true
		}
	}
	return false
}
