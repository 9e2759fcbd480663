package crypto

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/joinframework/join-sub004/reactor"
)

func TestBase64RoundTrip(t *testing.T) {
	data := []byte("hello reactor")
	encoded := EncodeBase64(data)
	decoded, err := DecodeBase64(encoded)
	require.NoError(t, err)
	require.Equal(t, data, decoded)
}

func TestDigestIsDeterministic(t *testing.T) {
	a := Digest([]byte("same input"))
	b := Digest([]byte("same input"))
	require.Equal(t, a, b)
}

func TestHMACVerifies(t *testing.T) {
	key := []byte("secret-key")
	data := []byte("payload")
	mac := HMAC(key, data)

	require.True(t, VerifyHMAC(key, data, mac))
	require.False(t, VerifyHMAC(key, data, append([]byte(nil), mac[:len(mac)-1]...)))
	require.False(t, VerifyHMAC([]byte("wrong-key"), data, mac))
}

func TestDeriveSigningKeyIsDeterministicAndDomainSeparated(t *testing.T) {
	secret := []byte("root secret")

	k1, err := DeriveSigningKey(secret, []byte("purpose-a"), 32)
	require.NoError(t, err)
	k2, err := DeriveSigningKey(secret, []byte("purpose-a"), 32)
	require.NoError(t, err)
	k3, err := DeriveSigningKey(secret, []byte("purpose-b"), 32)
	require.NoError(t, err)

	require.Equal(t, k1, k2)
	require.NotEqual(t, k1, k3)
	require.Len(t, k1, 32)
}

func TestVerifierAcksValidMessageFromReactorCallback(t *testing.T) {
	r, err := reactor.New()
	require.NoError(t, err)
	defer r.Shutdown()

	pr, pw, err := os.Pipe()
	require.NoError(t, err)
	defer pr.Close()
	defer pw.Close()

	key := []byte("verifier-key")
	v := NewVerifier(int(pr.Fd()), key)

	acked := make(chan []byte, 1)
	invalid := make(chan string, 1)
	v.Acked = func(ack []byte) { acked <- ack }
	v.Invalid = func(reason string) { invalid <- reason }

	require.NoError(t, r.AddHandler(v, true))

	payload := []byte("message body")
	frame := append(append([]byte{}, payload...), HMAC(key, payload)...)
	_, err = pw.Write(frame)
	require.NoError(t, err)

	select {
	case ack := <-acked:
		require.Equal(t, HMAC(key, payload)[:8], ack)
	case reason := <-invalid:
		t.Fatalf("unexpected invalid: %s", reason)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for ack")
	}
}

func TestVerifierRejectsTamperedMessage(t *testing.T) {
	r, err := reactor.New()
	require.NoError(t, err)
	defer r.Shutdown()

	pr, pw, err := os.Pipe()
	require.NoError(t, err)
	defer pr.Close()
	defer pw.Close()

	key := []byte("verifier-key")
	v := NewVerifier(int(pr.Fd()), key)

	acked := make(chan []byte, 1)
	invalid := make(chan string, 1)
	v.Acked = func(ack []byte) { acked <- ack }
	v.Invalid = func(reason string) { invalid <- reason }

	require.NoError(t, r.AddHandler(v, true))

	payload := []byte("message body")
	badTag := make([]byte, 32)
	frame := append(append([]byte{}, payload...), badTag...)
	_, err = pw.Write(frame)
	require.NoError(t, err)

	select {
	case ack := <-acked:
		t.Fatalf("unexpected ack: %v", ack)
	case <-invalid:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for invalid callback")
	}
}
