package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/RapidPrime/ReferenceClient/internal/config"
)

const validAddress = "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PAYMENT_ADDRESS", "MINER_THREADS", "MINER_LABEL", "MINER_LABEL_IS_HOSTNAME",
		"MINER_PRIMORIAL", "MINER_MINING_PROTOCOL", "MINER_SIEVE_TARGET_LENGTH",
		"POOL_SERVERS", "POOL_PORT", "STATUS_ADDR", "STATUS_JWT_SECRET",
	} {
		t.Setenv(k, "")
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionFlag(t *testing.T) {
	clearEnv(t)
	out, err := execute(t, "--version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "RapidPrime miner Version: 0002.0001, Protocol Version: 1") {
		t.Errorf("version banner missing:\n%s", out)
	}
}

func TestLicenseFlag(t *testing.T) {
	clearEnv(t)
	out, err := execute(t, "--license")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "WITHOUT WARRANTY OF ANY KIND") {
		t.Errorf("license text missing:\n%s", out)
	}
}

func TestMissingAddressPrintsUsage(t *testing.T) {
	clearEnv(t)
	out, err := execute(t)
	if !errors.Is(err, config.ErrAddressRequired) {
		t.Fatalf("err = %v, want ErrAddressRequired", err)
	}
	if !strings.Contains(out, "--payment-address") {
		t.Errorf("usage not printed:\n%s", out)
	}
}

func TestInvalidAddress(t *testing.T) {
	clearEnv(t)
	if _, err := execute(t, "--payment-address", "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNb"); !errors.Is(err, config.ErrInvalidAddress) {
		t.Errorf("err = %v, want ErrInvalidAddress", err)
	}
}

func TestBuildConfigFlagsOverrideEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("MINER_THREADS", "2")
	t.Setenv("MINER_LABEL", "from-env")
	t.Setenv("PAYMENT_ADDRESS", validAddress)

	cmd := newRootCmd()
	if err := cmd.ParseFlags([]string{"--threads", "300", "--primorial", "13", "--status-addr", "127.0.0.1:9000"}); err != nil {
		t.Fatal(err)
	}
	cfg, warnings, err := buildConfig(cmd)
	if err != nil {
		t.Fatal(err)
	}
	mc := cfg.MinerConfig
	if mc.Threads != config.MaxThreads || len(warnings) != 1 {
		t.Errorf("threads = %d, warnings = %v", mc.Threads, warnings)
	}
	if mc.Label != "from-env" {
		t.Errorf("unchanged flag overrode env: label = %q", mc.Label)
	}
	if mc.FixedPrimorial != 13 || mc.PaymentAddress != validAddress {
		t.Errorf("miner config = %+v", mc)
	}
	if cfg.StatusConfig.Address != "127.0.0.1:9000" {
		t.Errorf("status addr = %q", cfg.StatusConfig.Address)
	}
}

func TestTokenCommand(t *testing.T) {
	clearEnv(t)
	t.Setenv("STATUS_JWT_SECRET", "s3cret")
	out, err := execute(t, "token", "--subject", "ops")
	if err != nil {
		t.Fatal(err)
	}
	if parts := strings.Split(strings.TrimSpace(out), "."); len(parts) != 3 {
		t.Errorf("not a JWT: %q", out)
	}

	t.Setenv("STATUS_JWT_SECRET", "")
	if _, err := execute(t, "token"); err == nil {
		t.Error("token minted without a secret")
	}
}
