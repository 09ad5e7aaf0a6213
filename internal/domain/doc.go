// Package domain contains the core business entities, value objects, and
// domain logic of the application: flashcard sets, pet records and the
// ownership relations between the learner and catalog items. It is
// independent of any specific storage or delivery mechanism.
package domain
