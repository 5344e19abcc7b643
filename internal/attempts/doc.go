// Package attempts counts failed login attempts per client within a sliding
// window so the admin login endpoint can throttle password guessing.
package attempts
