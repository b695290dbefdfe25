package resilience

// NewCircuitBreakerWithClock открывает подмену часов для тестов.
var NewCircuitBreakerWithClock = newCircuitBreaker
