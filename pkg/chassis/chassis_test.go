package chassis

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSelfSignedDefaultHosts(t *testing.T) {
	cert, err := SelfSigned()
	if err != nil {
		t.Fatalf("SelfSigned: %v", err)
	}
	if cert.Leaf.Subject.CommonName != "localhost" {
		t.Errorf("CN = %q", cert.Leaf.Subject.CommonName)
	}
	for _, h := range []string{"localhost", "127.0.0.1", "::1"} {
		if err := cert.Leaf.VerifyHostname(h); err != nil {
			t.Errorf("VerifyHostname(%s): %v", h, err)
		}
	}
}

func TestSelfSignedHosts(t *testing.T) {
	cert, err := SelfSigned("vaxatlas.lan", "192.168.1.20")
	if err != nil {
		t.Fatal(err)
	}
	leaf := cert.Leaf
	if leaf.Subject.CommonName != "vaxatlas.lan" {
		t.Errorf("CN = %q", leaf.Subject.CommonName)
	}
	if err := leaf.VerifyHostname("vaxatlas.lan"); err != nil {
		t.Error(err)
	}
	if err := leaf.VerifyHostname("192.168.1.20"); err != nil {
		t.Error(err)
	}
	if err := leaf.VerifyHostname("localhost"); err == nil {
		t.Error("explicit hosts must replace the localhost default")
	}
	if d := leaf.NotAfter.Sub(leaf.NotBefore); d > 31*24*time.Hour {
		t.Errorf("validity = %v", d)
	}
}

func TestDevelopmentTLSConfig(t *testing.T) {
	cfg, err := DevelopmentTLSConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MinVersion != tls.VersionTLS13 || len(cfg.Certificates) != 1 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestProductionTLSConfigMissingFiles(t *testing.T) {
	if _, err := ProductionTLSConfig("nope.crt", "nope.key"); err == nil {
		t.Error("expected error for missing files")
	}
}

// writePair stores a fresh self-signed pair for host as PEM files in dir.
func writePair(t *testing.T, dir, host string) (certFile, keyFile string) {
	t.Helper()
	cert, err := SelfSigned(host)
	if err != nil {
		t.Fatal(err)
	}
	key, err := x509.MarshalPKCS8PrivateKey(cert.PrivateKey)
	if err != nil {
		t.Fatal(err)
	}
	certFile, keyFile = filepath.Join(dir, "tls.crt"), filepath.Join(dir, "tls.key")
	if err := os.WriteFile(certFile, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: cert.Certificate[0]}), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(keyFile, pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: key}), 0o600); err != nil {
		t.Fatal(err)
	}
	return certFile, keyFile
}

func servedCN(t *testing.T, r *certReloader) string {
	t.Helper()
	c, err := r.GetCertificate(nil)
	if err != nil {
		t.Fatal(err)
	}
	leaf, err := x509.ParseCertificate(c.Certificate[0])
	if err != nil {
		t.Fatal(err)
	}
	return leaf.Subject.CommonName
}

func TestCertReloader(t *testing.T) {
	dir := t.TempDir()
	certFile, keyFile := writePair(t, dir, "old.example")
	r := &certReloader{certFile: certFile, keyFile: keyFile, checkEvery: time.Hour}
	if err := r.reload(); err != nil {
		t.Fatal(err)
	}

	writePair(t, dir, "new.example")
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(certFile, future, future); err != nil {
		t.Fatal(err)
	}
	if cn := servedCN(t, r); cn != "old.example" {
		t.Errorf("within checkEvery served %q, want old.example", cn)
	}

	r.checkEvery = 0
	if cn := servedCN(t, r); cn != "new.example" {
		t.Errorf("after renewal served %q, want new.example", cn)
	}

	// A broken renewal keeps serving the last good pair.
	if err := os.WriteFile(keyFile, []byte("garbage"), 0o600); err != nil {
		t.Fatal(err)
	}
	later := future.Add(time.Hour)
	if err := os.Chtimes(certFile, later, later); err != nil {
		t.Fatal(err)
	}
	if cn := servedCN(t, r); cn != "new.example" {
		t.Errorf("after bad renewal served %q, want new.example", cn)
	}
}

func TestProductionTLSConfig(t *testing.T) {
	certFile, keyFile := writePair(t, t.TempDir(), "vaxatlas.example")
	cfg, err := ProductionTLSConfig(certFile, keyFile)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.GetCertificate == nil || len(cfg.Certificates) != 0 {
		t.Errorf("cfg should serve through GetCertificate: %+v", cfg)
	}
	if _, err := cfg.GetCertificate(&tls.ClientHelloInfo{ServerName: "vaxatlas.example"}); err != nil {
		t.Error(err)
	}
}

func TestHeaders(t *testing.T) {
	h := securityHeaders(altSvcMiddleware(":9443", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/v1/health", nil))

	if got := rec.Header().Get("Alt-Svc"); got != `h3=":9443"; ma=86400` {
		t.Errorf("Alt-Svc = %q", got)
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing nosniff header")
	}
}
