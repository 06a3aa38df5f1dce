// Package diagnostics holds preflight checks run by "a3s validate", for
// catching configuration that parses cleanly but won't actually reach an
// upstream at search time.
package diagnostics

import (
	"context"
	"fmt"
	"time"

	"github.com/miekg/dns"
)

// DefaultResolver is used when a config doesn't name one explicitly.
const DefaultResolver = "8.8.8.8:53"

// CheckHost resolves host's A record against resolver, returning an error
// if the query fails outright or comes back with a non-success RCODE.
// Grounded on the traffic generator's DNSDriver.Execute, stripped to the
// single A-record reachability probe "a3s validate" needs.
func CheckHost(ctx context.Context, host, resolver string) error {
	if resolver == "" {
		resolver = DefaultResolver
	}

	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(host), dns.TypeA)
	msg.RecursionDesired = true

	client := &dns.Client{Net: "udp", Timeout: 5 * time.Second}

	type result struct {
		resp *dns.Msg
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		resp, _, err := client.Exchange(msg, resolver)
		ch <- result{resp, err}
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case r := <-ch:
		if r.err != nil {
			return fmt.Errorf("resolving %s via %s: %w", host, resolver, r.err)
		}
		if r.resp.Rcode != dns.RcodeSuccess {
			return fmt.Errorf("resolving %s via %s: %s", host, resolver, dns.RcodeToString[r.resp.Rcode])
		}
		return nil
	}
}
