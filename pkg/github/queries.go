package github

// GraphQL documents for the Projects v2 catalog. Field selections mirror
// what the MCP tools surface; fragments cover the content and field value
// union types.

const projectFields = `
id
title
shortDescription
readme
public
closed
createdAt
updatedAt
number
url
owner {
  ... on Organization {
    login
  }
  ... on User {
    login
  }
}`

const queryOrganizationProjects = `
query GetOrgProjects($login: String!, $first: Int!, $after: String) {
  organization(login: $login) {
    projectsV2(first: $first, after: $after) {
      pageInfo {
        hasNextPage
        endCursor
      }
      nodes {` + projectFields + `
      }
    }
  }
}`

const queryUserProjects = `
query GetUserProjects($login: String!, $first: Int!, $after: String) {
  user(login: $login) {
    projectsV2(first: $first, after: $after) {
      pageInfo {
        hasNextPage
        endCursor
      }
      nodes {` + projectFields + `
      }
    }
  }
}`

const queryProject = `
query GetProject($id: ID!) {
  node(id: $id) {
    ... on ProjectV2 {` + projectFields + `
    }
  }
}`

const queryProjectItems = `
query GetProjectItems($id: ID!, $first: Int!, $after: String) {
  node(id: $id) {
    ... on ProjectV2 {
      items(first: $first, after: $after) {
        pageInfo {
          hasNextPage
          endCursor
        }
        nodes {
          id
          type
          createdAt
          updatedAt
          isArchived
          content {
            ... on Issue {
              id
              title
              number
              url
              issueState: state
            }
            ... on PullRequest {
              id
              title
              number
              url
              prState: state
            }
            ... on DraftIssue {
              id
              title
            }
          }
          fieldValues(first: 20) {
            nodes {
              ... on ProjectV2ItemFieldTextValue {
                text
                field {
                  ... on ProjectV2FieldCommon {
                    id
                    name
                  }
                }
              }
              ... on ProjectV2ItemFieldNumberValue {
                number
                field {
                  ... on ProjectV2FieldCommon {
                    id
                    name
                  }
                }
              }
              ... on ProjectV2ItemFieldSingleSelectValue {
                name
                field {
                  ... on ProjectV2FieldCommon {
                    id
                    name
                  }
                }
              }
              ... on ProjectV2ItemFieldDateValue {
                date
                field {
                  ... on ProjectV2FieldCommon {
                    id
                    name
                  }
                }
              }
              ... on ProjectV2ItemFieldMilestoneValue {
                milestone {
                  id
                  title
                }
                field {
                  ... on ProjectV2FieldCommon {
                    id
                    name
                  }
                }
              }
              ... on ProjectV2ItemFieldIterationValue {
                title
                field {
                  ... on ProjectV2FieldCommon {
                    id
                    name
                  }
                }
              }
            }
          }
        }
      }
    }
  }
}`

const queryProjectFieldsDoc = `
query GetProjectFields($id: ID!) {
  node(id: $id) {
    ... on ProjectV2 {
      fields(first: 20) {
        nodes {
          ... on ProjectV2Field {
            id
            name
            dataType
          }
          ... on ProjectV2SingleSelectField {
            id
            name
            dataType
            options {
              id
              name
            }
          }
          ... on ProjectV2IterationField {
            id
            name
            dataType
            configuration {
              iterations {
                id
                title
              }
            }
          }
        }
      }
    }
  }
}`

const queryRateLimit = `
query GetRateLimit {
  viewer {
    login
  }
  rateLimit {
    limit
    remaining
    used
    resetAt
  }
}`

const mutationAddItem = `
mutation AddProjectItem($projectId: ID!, $contentId: ID!) {
  addProjectV2ItemById(input: {
    projectId: $projectId
    contentId: $contentId
  }) {
    item {
      id
    }
  }
}`

const mutationUpdateItemField = `
mutation UpdateProjectItemField(
    $projectId: ID!, $itemId: ID!, $fieldId: ID!, $value: ProjectV2FieldValueInput!
) {
  updateProjectV2ItemFieldValue(input: {
    projectId: $projectId
    itemId: $itemId
    fieldId: $fieldId
    value: $value
  }) {
    projectV2Item {
      id
    }
  }
}`

const mutationRemoveItem = `
mutation RemoveProjectItem($projectId: ID!, $itemId: ID!) {
  deleteProjectV2Item(input: {
    projectId: $projectId
    itemId: $itemId
  }) {
    deletedItemId
  }
}`

const mutationArchiveItem = `
mutation ArchiveProjectItem($projectId: ID!, $itemId: ID!) {
  archiveProjectV2Item(input: {
    projectId: $projectId
    itemId: $itemId
  }) {
    item {
      id
      isArchived
    }
  }
}`

const mutationCreateProject = `
mutation CreateProject($ownerId: ID!, $title: String!, $description: String) {
  createProjectV2(input: {
    ownerId: $ownerId
    title: $title
    shortDescription: $description
  }) {
    projectV2 {
      id
      title
      shortDescription
      url
    }
  }
}`

const mutationUpdateProject = `
mutation UpdateProject(
    $projectId: ID!, $title: String, $description: String, $readme: String, $public: Boolean
) {
  updateProjectV2(input: {
    projectId: $projectId
    title: $title
    shortDescription: $description
    readme: $readme
    public: $public
  }) {
    projectV2 {
      id
      title
      shortDescription
      readme
      public
    }
  }
}`

const mutationDeleteProject = `
mutation DeleteProject($projectId: ID!) {
  deleteProjectV2(input: {
    projectId: $projectId
  }) {
    projectV2 {
      id
    }
  }
}`
