package questionbank

import "assessment-system/internal/models"

// seedQuestions is the built-in bank shipped with the server. Extra
// questions can be merged in from QUESTION_BANK_PATH at startup.
var seedQuestions = []models.Question{
	{ID: "wd-f-1", Domain: "Web Development", Level: models.LevelFresher, Question: "Which HTML tag is used to create a hyperlink?", CorrectAnswer: "a", Points: 10},
	{ID: "wd-f-2", Domain: "Web Development", Level: models.LevelFresher, Question: "Which CSS property controls the text size of an element?", CorrectAnswer: "font-size", Points: 10},
	{ID: "wd-f-3", Domain: "Web Development", Level: models.LevelFresher, Question: "Which JavaScript keyword declares a block-scoped variable?", CorrectAnswer: "let", Points: 10},
	{ID: "wd-f-4", Domain: "Web Development", Level: models.LevelFresher, Question: "What does HTTP status code 404 mean?", CorrectAnswer: "not found", Points: 10},
	{ID: "wd-f-5", Domain: "Web Development", Level: models.LevelFresher, Question: "Which HTTP method is used to submit form data to a server?", CorrectAnswer: "post", Points: 10},
	{ID: "wd-f-6", Domain: "Web Development", Level: models.LevelFresher, Question: "What does CSS stand for?", CorrectAnswer: "cascading style sheets", Points: 10},
	{ID: "wd-e-1", Domain: "Web Development", Level: models.LevelExperienced, Question: "Which HTTP header enables cross-origin resource sharing?", CorrectAnswer: "access-control-allow-origin", Points: 10},
	{ID: "wd-e-2", Domain: "Web Development", Level: models.LevelExperienced, Question: "Which storage mechanism persists data across browser sessions without an expiry?", CorrectAnswer: "localstorage", Points: 10},
	{ID: "wd-e-3", Domain: "Web Development", Level: models.LevelExperienced, Question: "What HTTP status code indicates a permanent redirect?", CorrectAnswer: "301", Points: 10},
	{ID: "wd-e-4", Domain: "Web Development", Level: models.LevelExperienced, Question: "Which protocol upgrades an HTTP connection to full-duplex messaging?", CorrectAnswer: "websocket", Points: 10},
	{ID: "wd-e-5", Domain: "Web Development", Level: models.LevelExperienced, Question: "Which token format carries signed JSON claims between parties?", CorrectAnswer: "jwt", Points: 10},
	{ID: "ds-f-1", Domain: "Data Science", Level: models.LevelFresher, Question: "Which Python library is the standard for dataframes?", CorrectAnswer: "pandas", Points: 10},
	{ID: "ds-f-2", Domain: "Data Science", Level: models.LevelFresher, Question: "What is the middle value of a sorted dataset called?", CorrectAnswer: "median", Points: 10},
	{ID: "ds-f-3", Domain: "Data Science", Level: models.LevelFresher, Question: "Which plot shows the distribution of a single numeric variable in bins?", CorrectAnswer: "histogram", Points: 10},
	{ID: "ds-f-4", Domain: "Data Science", Level: models.LevelFresher, Question: "What does SQL stand for?", CorrectAnswer: "structured query language", Points: 10},
	{ID: "ds-f-5", Domain: "Data Science", Level: models.LevelFresher, Question: "Which measure describes how spread out values are around the mean?", CorrectAnswer: "standard deviation", Points: 10},
	{ID: "ds-e-1", Domain: "Data Science", Level: models.LevelExperienced, Question: "Which technique splits data into training and validation folds repeatedly?", CorrectAnswer: "cross validation", Points: 10},
	{ID: "ds-e-2", Domain: "Data Science", Level: models.LevelExperienced, Question: "What problem arises when a model fits training noise instead of signal?", CorrectAnswer: "overfitting", Points: 10},
	{ID: "ds-e-3", Domain: "Data Science", Level: models.LevelExperienced, Question: "Which metric is preferred over accuracy for imbalanced classification?", CorrectAnswer: "f1 score", Points: 10},
	{ID: "ds-e-4", Domain: "Data Science", Level: models.LevelExperienced, Question: "Which algorithm builds an ensemble of trees on bootstrapped samples?", CorrectAnswer: "random forest", Points: 10},
	{ID: "ds-e-5", Domain: "Data Science", Level: models.LevelExperienced, Question: "What is the process of reducing feature count while keeping variance called?", CorrectAnswer: "dimensionality reduction", Points: 10},
	{ID: "mb-f-1", Domain: "Mobile Development", Level: models.LevelFresher, Question: "Which language is primary for native iOS development today?", CorrectAnswer: "swift", Points: 10},
	{ID: "mb-f-2", Domain: "Mobile Development", Level: models.LevelFresher, Question: "Which file declares permissions in an Android app?", CorrectAnswer: "androidmanifest.xml", Points: 10},
	{ID: "mb-f-3", Domain: "Mobile Development", Level: models.LevelFresher, Question: "Which Google framework builds cross-platform apps from one Dart codebase?", CorrectAnswer: "flutter", Points: 10},
	{ID: "mb-f-4", Domain: "Mobile Development", Level: models.LevelFresher, Question: "What is the Android UI building block that represents one screen?", CorrectAnswer: "activity", Points: 10},
	{ID: "mb-f-5", Domain: "Mobile Development", Level: models.LevelFresher, Question: "Which store distributes iOS applications?", CorrectAnswer: "app store", Points: 10},
}
