package security

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
)

// DetectionMetrics tracks security detection events
type DetectionMetrics struct {
	SuspiciousRequests int64
}

// Detector resolves client addresses and flags requests that look like probes.
type Detector struct {
	suspicious     int64
	trustedProxies []*net.IPNet
	logger         *slog.Logger
}

var (
	suspiciousPatterns = []string{
		"../", "..\\", ".env", "wp-admin", "phpmyadmin",
		"admin.php", "config.php", ".git", ".ssh",
		"eval(", "javascript:", "<script", "union select",
		"etc/passwd", "cmd.exe",
	}
	suspiciousAgents = []string{
		"sqlmap", "nmap", "nikto", "gobuster", "dirb", "masscan", "zgrab",
	}
	unusualMethods = []string{"TRACE", "TRACK", "DEBUG", "CONNECT"}
)

const maxURLLength = 2048

// NewDetector trusts loopback and private networks as reverse proxies.
func NewDetector(logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{
		logger: logger,
		trustedProxies: []*net.IPNet{
			parseCIDR("127.0.0.0/8"),
			parseCIDR("::1/128"),
			parseCIDR("10.0.0.0/8"),
			parseCIDR("172.16.0.0/12"),
			parseCIDR("192.168.0.0/16"),
		},
	}
}

func parseCIDR(cidr string) *net.IPNet {
	_, network, err := net.ParseCIDR(cidr)
	if err != nil {
		panic(fmt.Sprintf("failed to parse trusted proxy CIDR %s: %v", cidr, err))
	}
	return network
}

// DetectSuspiciousRequest analyzes request patterns for potential threats
func (d *Detector) DetectSuspiciousRequest(r *http.Request) bool {
	if d.suspiciousRequest(r) {
		atomic.AddInt64(&d.suspicious, 1)
		return true
	}
	return false
}

func (d *Detector) suspiciousRequest(r *http.Request) bool {
	path := strings.ToLower(r.URL.Path)
	query := strings.ToLower(r.URL.RawQuery)
	for _, pattern := range suspiciousPatterns {
		if strings.Contains(path, pattern) || strings.Contains(query, pattern) {
			return true
		}
	}

	userAgent := strings.ToLower(r.Header.Get("User-Agent"))
	for _, agent := range suspiciousAgents {
		if strings.Contains(userAgent, agent) {
			return true
		}
	}

	for _, method := range unusualMethods {
		if r.Method == method {
			return true
		}
	}

	if len(r.URL.String()) > maxURLLength {
		return true
	}

	// More than 5 proxy hops hints at header manipulation.
	return strings.Count(r.Header.Get("X-Forwarded-For"), ",") > 5
}

// ExtractClientIP returns the peer address, or the forwarded client address
// when the peer is a trusted proxy.
func (d *Detector) ExtractClientIP(r *http.Request) string {
	directIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		directIP = r.RemoteAddr
	}

	parsedDirectIP := net.ParseIP(directIP)
	if parsedDirectIP == nil || !d.isTrustedProxy(parsedDirectIP) {
		return directIP
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if clientIP := strings.TrimSpace(first); net.ParseIP(clientIP) != nil {
			return clientIP
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); net.ParseIP(xri) != nil {
		return xri
	}
	return directIP
}

func (d *Detector) isTrustedProxy(ip net.IP) bool {
	for _, network := range d.trustedProxies {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// Middleware logs suspicious requests and rejects the unusual methods outright.
func (d *Detector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if d.DetectSuspiciousRequest(r) {
			d.logger.WarnContext(r.Context(), "Suspicious request",
				"method", r.Method,
				"path", r.URL.Path,
				"client_ip", d.ExtractClientIP(r),
				"user_agent", r.Header.Get("User-Agent"))
			for _, method := range unusualMethods {
				if r.Method == method {
					http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
					return
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (d *Detector) GetMetrics() DetectionMetrics {
	return DetectionMetrics{SuspiciousRequests: atomic.LoadInt64(&d.suspicious)}
}

// AddTrustedProxy adds a trusted proxy network
func (d *Detector) AddTrustedProxy(cidr string) error {
	_, network, err := net.ParseCIDR(cidr)
	if err != nil {
		return fmt.Errorf("invalid CIDR %s: %w", cidr, err)
	}
	d.trustedProxies = append(d.trustedProxies, network)
	return nil
}
