package analyzer

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// StopwordSet is an uppercase set of tokens that are never part references.
type StopwordSet map[string]struct{}

// NewStopwordSet builds a set from words, uppercasing each.
func NewStopwordSet(words ...string) StopwordSet {
	s := make(StopwordSet, len(words))
	for _, w := range words {
		s[strings.ToUpper(w)] = struct{}{}
	}
	return s
}

// Contains reports whether token is a stopword. Token must already be uppercase.
func (s StopwordSet) Contains(token string) bool {
	_, ok := s[token]
	return ok
}

// Words returns the stopwords in sorted order.
func (s StopwordSet) Words() []string {
	words := make([]string, 0, len(s))
	for w := range s {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// Fingerprint returns a short stable hash of the set contents.
func (s StopwordSet) Fingerprint() string {
	hash := sha256.Sum256([]byte(strings.Join(s.Words(), "\n")))
	return hex.EncodeToString(hash[:8])
}

// DefaultStopwords returns the boilerplate and device-family noise found on
// LG service-manual exploded views. A fresh set is returned on every call.
func DefaultStopwords() StopwordSet {
	return NewStopwordSet(defaultStopwords...)
}

var defaultStopwords = []string{
	// copyright and training boilerplate
	"LG", "ELECTRONICS", "INC", "COPYRIGHT", "ALL", "RIGHTS", "RESERVED", "LGE",
	"TRAINING", "SERVICE", "PURPOSES", "ONLY", "INTERNAL", "USE",
	"2015", "2016", "2017", "2018", "2019", "2020", "2021", "2022",
	"AND", "LAN", "GENDER", "WHITE", "BLACK",
	// chassis labels that appear on every sheet
	"EAD63769504", "EAD64185903", "EAD63769505", "EAD64185904",
	// safety notice
	"EXPLODED", "VIEW", "IMPORTANT", "SAFETY", "NOTICE", "MANY", "ELECTRICAL",
	"MECHANICAL", "PARTS", "IN", "THIS", "CHASSIS", "HAVE", "RELATED",
	"CHARACTERISTICS", "THESE", "ARE", "IDENTIFIED", "BY", "IT", "IS", "ESSENTIAL",
	"SPECIAL", "SHOULD", "BE", "REPLACED", "WITH", "SAME", "COMPONENTS", "AS",
	"RECOMMENDED", "MANUAL", "PREVENT", "FIRE", "OR", "OTHER", "HAZARDS", "DO",
	"NOT", "MODIFY", "THE", "ORIGINAL", "DESIGN", "WITHOUT", "PERMISSION", "OF",
	"MANUFACTURER", "SHOCK", "THAT", "TO",
	// sheet furniture
	"MRC", "MODULE", "REPAIR", "CENTER", "OPTICAL", "SHEET", "ITEM", "INCH",
	"LOCATION", "LOCATION#", "STATUS", "UNDER", "59INCH", "PANEL", "ASS'Y", "POL",
	"REAR", "FRONT", "COF", "SOURCE", "PCB", "LEFT", "RIGHT", "ASS", "FOR", "SIDE",
	"STAND", "SCREW", "BOARD",
}
