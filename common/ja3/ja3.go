// Copyright (c) 2018, Open Systems AG. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file in the root of the source
// tree.

// Package ja3 computes JA3 fingerprints of the ClientHello records built for
// probes, so the catalog can be compared with what passive sensors record.
package ja3

import (
	"crypto/md5"
	"encoding/hex"

	"golang.org/x/exp/slices"
)

// ClientHello holds the JA3 relevant fields of one ClientHello. GREASE values
// are never recorded.
type ClientHello struct {
	Version             uint16
	CipherSuites        []uint16
	Extensions          []uint16
	EllipticCurves      []uint16
	EllipticCurvePF     []uint8
	Versions            []uint16
	SignatureAlgorithms []uint16
	ServerName          string
	ja3ByteString       []byte
	ja3Hash             string
}

// Compute parses a TLS record carrying a ClientHello.
func Compute(payload []byte) (*ClientHello, error) {
	var clientHello ClientHello
	err := clientHello.parseSegment(payload)
	if err != nil {
		return nil, err
	}
	return &clientHello, nil
}

// Equals compares the fields that make up the JA3 string plus the offered
// versions. With anyExtensionOrder set, extension lists holding the same
// types in a different order are equal.
func (c *ClientHello) Equals(another *ClientHello, anyExtensionOrder bool) bool {
	if c.Version != another.Version {
		return false
	}
	extensions, anotherExtensions := c.Extensions, another.Extensions
	if anyExtensionOrder {
		extensions, anotherExtensions = sorted(extensions), sorted(anotherExtensions)
	}
	return slices.Equal(extensions, anotherExtensions) &&
		slices.Equal(c.CipherSuites, another.CipherSuites) &&
		slices.Equal(c.EllipticCurves, another.EllipticCurves) &&
		slices.Equal(c.EllipticCurvePF, another.EllipticCurvePF) &&
		slices.Equal(c.Versions, another.Versions) &&
		slices.Equal(c.SignatureAlgorithms, another.SignatureAlgorithms)
}

func sorted(values []uint16) []uint16 {
	values = slices.Clone(values)
	slices.Sort(values)
	return values
}

func (c *ClientHello) String() string {
	if c.ja3ByteString == nil {
		c.marshalJA3()
	}
	return string(c.ja3ByteString)
}

// Hash returns the hex encoded MD5 of String.
func (c *ClientHello) Hash() string {
	if c.ja3Hash == "" {
		sum := md5.Sum([]byte(c.String()))
		c.ja3Hash = hex.EncodeToString(sum[:])
	}
	return c.ja3Hash
}
