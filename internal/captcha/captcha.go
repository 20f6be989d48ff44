// Package captcha issues and checks the AI-generated anti-bot questions.
//
// Verification is delegated to a language model and is not reproducible, so
// it only deters casual automation. It is not an authorization control.
package captcha

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Giri-Aayush/fitochain-faucet/internal/ai"
)

// ErrUpstreamUnavailable is returned when the AI service fails or returns nothing usable
var ErrUpstreamUnavailable = errors.New("captcha: upstream unavailable")

const questionInstruction = `Generate a simple and short CAPTCHA-style question that most humans can answer easily. The answer should be a single word or number.
Examples:
- "What color is a banana?"
- "What is 5 + 8?"
- "Which animal says 'woof'?"
- "How many days are in a week?"
Do not include the answer in your response. Only provide the question text.`

const verificationTemplate = `Is "%s" a correct answer for the question "%s"? Consider common variations in wording, but be strict with math and numbers. Answer with only "true" or "false".`

// Challenge is a question handed to the client
type Challenge struct {
	Question string `json:"question"`
}

// Issuer generates new questions
type Issuer struct {
	generator ai.Generator
}

// NewIssuer creates an Issuer
func NewIssuer(generator ai.Generator) *Issuer {
	return &Issuer{generator: generator}
}

// Issue asks the model for a fresh question
func (i *Issuer) Issue(ctx context.Context) (*Challenge, error) {
	text, err := i.generator.Generate(ctx, ai.Request{
		Prompt:      questionInstruction,
		Temperature: ai.Temperature(1),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	question := cleanQuestion(text)
	if question == "" {
		return nil, fmt.Errorf("%w: empty question", ErrUpstreamUnavailable)
	}
	return &Challenge{Question: question}, nil
}

var quoteStripper = strings.NewReplacer(`"`, "", "“", "", "”", "")

func cleanQuestion(text string) string {
	return strings.TrimSpace(quoteStripper.Replace(strings.TrimSpace(text)))
}

// Verifier judges answers to previously issued questions
type Verifier struct {
	generator ai.Generator
}

// NewVerifier creates a Verifier
func NewVerifier(generator ai.Generator) *Verifier {
	return &Verifier{generator: generator}
}

// Verify reports whether answer satisfies question. A wrong answer is (false, nil);
// an AI failure is ErrUpstreamUnavailable.
func (v *Verifier) Verify(ctx context.Context, question, answer string) (bool, error) {
	text, err := v.generator.Generate(ctx, ai.Request{
		Prompt:      fmt.Sprintf(verificationTemplate, answer, question),
		Temperature: ai.Temperature(0),
	})
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	return strings.ToLower(strings.TrimSpace(text)) == "true", nil
}
