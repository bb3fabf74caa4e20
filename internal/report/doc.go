// Package report renders prediction outcomes as terminal tables.
package report
