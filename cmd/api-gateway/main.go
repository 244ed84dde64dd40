package main

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ravitejak99/storefront-go/internal/config"
	"github.com/ravitejak99/storefront-go/internal/discovery"
)

// Gateway fronts the storefront service, resolving its address through
// Consul and refreshing the route periodically.
type Gateway struct {
	consul      *discovery.ConsulClient
	serviceName string
	fallbackURL string

	mutex      sync.RWMutex
	proxy      *httputil.ReverseProxy
	serviceURL string
}

func NewGateway(consul *discovery.ConsulClient, serviceName, fallbackURL string) *Gateway {
	g := &Gateway{
		consul:      consul,
		serviceName: serviceName,
		fallbackURL: fallbackURL,
	}

	g.discoverService()
	go g.watchService()

	return g
}

func (g *Gateway) discoverService() {
	serviceURL := g.fallbackURL
	if g.consul != nil {
		if url, err := g.consul.GetServiceURL(g.serviceName); err == nil {
			serviceURL = url
		} else {
			log.Printf("⚠️ Service %s not found, using fallback: %v", g.serviceName, err)
		}
	}
	g.updateProxy(serviceURL)
}

func (g *Gateway) updateProxy(serviceURL string) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if serviceURL == g.serviceURL {
		return
	}

	target, err := url.Parse(serviceURL)
	if err != nil {
		log.Printf("❌ Invalid URL for %s: %v", g.serviceName, err)
		return
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		log.Printf("❌ Proxy error for %s: %v", g.serviceName, err)
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, `{"error": "service unavailable"}`)
	}

	g.proxy = proxy
	g.serviceURL = serviceURL
	log.Printf("✅ Updated route: %s → %s", g.serviceName, serviceURL)
}

func (g *Gateway) watchService() {
	ticker := time.NewTicker(10 * time.Second)
	for range ticker.C {
		g.discoverService()
	}
}

func (g *Gateway) Proxy(c *gin.Context) {
	g.mutex.RLock()
	proxy := g.proxy
	g.mutex.RUnlock()

	if proxy == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": g.serviceName + " unavailable"})
		return
	}
	log.Printf("🔀 Routing %s %s → %s", c.Request.Method, c.Request.URL.Path, g.serviceName)
	proxy.ServeHTTP(c.Writer, c.Request)
}

func (g *Gateway) HealthCheck(c *gin.Context) {
	g.mutex.RLock()
	serviceURL := g.serviceURL
	g.mutex.RUnlock()

	status := "healthy"
	backend := "healthy"

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(serviceURL + "/health")
	if err != nil || resp.StatusCode != http.StatusOK {
		status = "degraded"
		backend = "unhealthy"
	}
	if resp != nil {
		resp.Body.Close()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  status,
		"service": "api-gateway",
		"services": gin.H{
			g.serviceName: backend,
		},
	})
}

func (g *Gateway) ListServices(c *gin.Context) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	c.JSON(http.StatusOK, gin.H{"services": gin.H{g.serviceName: g.serviceURL}})
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	consul, err := discovery.NewConsulClient(cfg.ConsulHost, cfg.ConsulPort)
	if err != nil {
		log.Printf("⚠️ Failed to connect to Consul, using fallback DNS: %v", err)
		consul = nil
	}

	fallback := fmt.Sprintf("http://%s:%d", cfg.ServiceName, cfg.Port)
	gateway := NewGateway(consul, cfg.ServiceName, fallback)

	router := gin.Default()

	router.GET("/health", gateway.HealthCheck)
	router.GET("/services", gateway.ListServices)

	for _, prefix := range []string{"/auth", "/users", "/products", "/orders", "/analytics"} {
		router.Any(prefix, gateway.Proxy)
		router.Any(prefix+"/*path", gateway.Proxy)
	}

	log.Printf("🚀 API Gateway starting on http://0.0.0.0:%d", cfg.GatewayPort)
	router.Run(fmt.Sprintf(":%d", cfg.GatewayPort))
}
