package s1_test

import (
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func TestS1(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "S1 Suite")
}
