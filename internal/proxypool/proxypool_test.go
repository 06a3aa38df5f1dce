package proxypool

import (
	"testing"

	"github.com/a3s-lab/a3s-search/internal/types"
)

func threeProxies() []types.ProxyDescriptor {
	return []types.ProxyDescriptor{
		{Host: "proxy-a", Port: 8080, Protocol: types.ProxyProtocolHTTP},
		{Host: "proxy-b", Port: 8080, Protocol: types.ProxyProtocolHTTP},
		{Host: "proxy-c", Port: 8080, Protocol: types.ProxyProtocolHTTP},
	}
}

func TestPool_RoundRobin_VisitsEachDescriptorEquallyOverNRounds(t *testing.T) {
	p := New(true, RoundRobin)
	p.SetProxies(threeProxies())

	counts := make(map[string]int)
	const rounds = 3
	for i := 0; i < rounds*3; i++ {
		d, err := p.Select()
		if err != nil {
			t.Fatalf("Select: %v", err)
		}
		counts[d.Host]++
	}

	for _, host := range []string{"proxy-a", "proxy-b", "proxy-c"} {
		if counts[host] != rounds {
			t.Errorf("host %s visited %d times, want %d", host, counts[host], rounds)
		}
	}
}

func TestPool_RoundRobin_OrderIsStable(t *testing.T) {
	p := New(true, RoundRobin)
	p.SetProxies(threeProxies())

	var order []string
	for i := 0; i < 3; i++ {
		d, _ := p.Select()
		order = append(order, d.Host)
	}
	want := []string{"proxy-a", "proxy-b", "proxy-c"}
	for i, host := range want {
		if order[i] != host {
			t.Errorf("position %d: got %s, want %s", i, order[i], host)
		}
	}
}

func TestPool_Disabled_AlwaysReturnsErrNoProxyAvailable(t *testing.T) {
	p := New(false, RoundRobin)
	p.SetProxies(threeProxies())

	if _, err := p.Select(); err != ErrNoProxyAvailable {
		t.Errorf("expected ErrNoProxyAvailable, got %v", err)
	}
}

func TestPool_Empty_ReturnsErrNoProxyAvailable(t *testing.T) {
	p := New(true, RoundRobin)
	if _, err := p.Select(); err != ErrNoProxyAvailable {
		t.Errorf("expected ErrNoProxyAvailable, got %v", err)
	}
}

func TestPool_SetProxies_ResetsIndexWhenShrunk(t *testing.T) {
	p := New(true, RoundRobin)
	p.SetProxies(threeProxies())
	p.Select()
	p.Select()

	p.SetProxies(threeProxies()[:1])
	d, err := p.Select()
	if err != nil {
		t.Fatal(err)
	}
	if d.Host != "proxy-a" {
		t.Errorf("expected wraparound to proxy-a after shrink, got %s", d.Host)
	}
}

func TestPool_Weighted_FavorsHigherWeightOverManyDraws(t *testing.T) {
	p := New(true, Weighted)
	p.SetProxies([]types.ProxyDescriptor{
		{Host: "heavy", Port: 8080, Protocol: types.ProxyProtocolHTTP, Weight: 9},
		{Host: "light", Port: 8080, Protocol: types.ProxyProtocolHTTP, Weight: 1},
	})

	counts := make(map[string]int)
	const draws = 2000
	for i := 0; i < draws; i++ {
		d, err := p.Select()
		if err != nil {
			t.Fatalf("Select: %v", err)
		}
		counts[d.Host]++
	}

	if counts["heavy"] <= counts["light"] {
		t.Errorf("expected heavy (weight 9) to be drawn far more than light (weight 1), got heavy=%d light=%d",
			counts["heavy"], counts["light"])
	}
}

func TestPool_Weighted_ZeroWeightTreatedAsOne(t *testing.T) {
	p := New(true, Weighted)
	p.SetProxies([]types.ProxyDescriptor{
		{Host: "a", Port: 8080, Protocol: types.ProxyProtocolHTTP},
		{Host: "b", Port: 8080, Protocol: types.ProxyProtocolHTTP},
	})

	counts := make(map[string]int)
	for i := 0; i < 200; i++ {
		d, _ := p.Select()
		counts[d.Host]++
	}
	if counts["a"] == 0 || counts["b"] == 0 {
		t.Errorf("expected both unweighted descriptors to be drawn, got a=%d b=%d", counts["a"], counts["b"])
	}
}
