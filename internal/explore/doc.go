// Package explore provides the built-in destination catalog, search over it, custom destinations
// for names outside it, and highlights loading.
package explore
