// Command admin-token mints a JWT for the admin surface using the same
// signing key the server reads from ADMIN_JWT_SIGNING_KEY.
package main

import (
	"flag"
	"fmt"
	"os"

	jwttoken "github.com/rgckd/hc-self-service-portal/internal/jwt_token"
	"github.com/rgckd/hc-self-service-portal/internal/platform/config"
)

func main() {
	subject := flag.String("subject", "", "who the token identifies, e.g. ops@example.com")
	ttl := flag.Duration("ttl", 0, "token lifetime; defaults to ADMIN_TOKEN_TTL")
	flag.Parse()

	if *subject == "" {
		fmt.Fprintln(os.Stderr, "usage: admin-token -subject ops@example.com [-ttl 12h]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	lifetime := *ttl
	if lifetime == 0 {
		lifetime = cfg.Admin.TokenTTL
	}

	svc := jwttoken.NewJWTService(cfg.Admin.JWTSigningKey, "portal", "portal-admin")
	token, err := svc.GenerateToken(*subject, lifetime)
	if err != nil {
		fmt.Fprintln(os.Stderr, "generate token:", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
