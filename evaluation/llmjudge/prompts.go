// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package llmjudge

import "fmt"

// systemInstruction establishes the numeric scoring convention for every
// judge call. The judge model must answer with a bare number so the reply
// can be parsed strictly.
const systemInstruction = `Play the role of a judge evaluating an assignment.
Your task is to assess the rightfulness of the provided answer against the expected one.
The answer should be a score from 0.0 to 1.0, where:
- 0.0 means the criteria is completely not met
- 0.5 means the criteria is partially met
- 1.0 means the criteria is fully met
Use fractional values (e.g., 0.2, 0.7, 0.85) to express degrees of fulfillment.
You MUST only respond with a numeric value between 0.0 and 1.0.`

// correctnessPrompt asks to what degree a criteria statement holds in the
// provided answer.
func correctnessPrompt(question, received, criteria string) string {
	return fmt.Sprintf(`Your duty is to assess the correctness of the provided answer according to the criteria we are looking for.

Question to be answered was: %s
Provided answer: %s

To what degree (0.0 to 1.0) is the statement "%s" correct according to the provided answer?
Use fractional values to express partial correctness. For example:
- 0.0 = completely incorrect or not addressed
- 0.3-0.5 = partially correct or partially addressed
- 0.7-0.9 = mostly correct with minor gaps
- 1.0 = completely correct`, question, received, criteria)
}

// contradictionPrompt asks to what degree a piece of evidence contradicts
// the provided answer.
func contradictionPrompt(question, received, evidence string) string {
	return fmt.Sprintf(`Question to be answered was: %s
Provided answer: %s
Evidence: %s

To what degree (0.0 to 1.0) is the evidence in contradiction with the provided answer?
Use fractional values to express degrees of contradiction. For example:
- 0.0 = no contradiction (evidence fully supports the answer)
- 0.3-0.5 = minor contradiction or partial inconsistency
- 0.7-0.9 = significant contradiction
- 1.0 = complete contradiction`, question, received, evidence)
}

// overlapPrompt compares the provided answer against the expert reference.
func overlapPrompt(question, received, expected string) string {
	return fmt.Sprintf(`Question to be answered was: %s
Provided answer: %s
Expected: %s

To what degree (0.0 to 1.0) do the expected and provided answers overlap?
Use fractional values to express similarity. For example:
- 0.0 = completely different, no overlap
- 0.2-0.4 = minimal overlap, different meaning
- 0.5-0.7 = moderate overlap, similar concepts but different wording
- 0.8-0.9 = high overlap, very similar meaning
- 1.0 = word-by-word coincidence or practically identical meaning`, question, received, expected)
}
