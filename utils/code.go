package utils

import (
	"math/rand"
	"strings"
)

// Alphabet base36 des codes d'accès (majuscules uniquement)
const codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// CodeLength est la longueur d'un code d'accès
const CodeLength = 6

// GenerateAccessCode génère un code d'accès de 6 caractères base36.
// Pseudo-aléatoire, pas garanti unique : l'unicité est assurée par
// l'index Mongo sur events.code, la collision fait échouer la création.
func GenerateAccessCode() string {
	b := make([]byte, CodeLength)
	for i := range b {
		b[i] = codeCharset[rand.Intn(len(codeCharset))]
	}
	return string(b)
}

// NormalizeCode met un code saisi au format canonique (majuscules, sans
// espaces) : la comparaison des codes est insensible à la casse
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
