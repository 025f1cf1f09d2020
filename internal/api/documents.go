package api

// GraphQL documents. The backend schema is an external contract: keep these
// byte-identical.

const signInDoc = `
mutation SignIn($username: String!, $password: String!) {
  signIn(username: $username, password: $password)
}
`

const signUpDoc = `
mutation SignUp($username: String!, $password: String!) {
  signUp(username: $username, password: $password)
}`

const resetPasswordDoc = `
mutation UpdatePassword($username: String!, $newPassword: String!) {
  updatePassword(username: $username, newPassword: $newPassword)
}`

const getTodoListsDoc = `
query TodoLists($where: TodoListWhere) {
  todoLists(where: $where) {
    id
    title
  }
}`

const createTodoListDoc = `
mutation CreateTodoLists($input: [TodoListCreateInput!]!) {
  createTodoLists(input: $input) {
    todoLists {
      id
      title
      owner {
        username
      }
    }
  }
}`

const updateTodoListDoc = `
mutation UpdateTodoLists($where: TodoListWhere, $update: TodoListUpdateInput) {
  updateTodoLists(where: $where, update: $update) {
    todoLists {
      id
      title
    }
  }
}`

const deleteTodoListDoc = `
mutation DeleteTodoLists($where: TodoListWhere, $delete: TodoListDeleteInput) {
  deleteTodoLists(where: $where, delete: $delete) {
    nodesDeleted
  }
}`

const getTodoListItemsDoc = `
query GetTodoListItems($where: TodoWhere) {
  todos(where: $where) {
    id
    content
    done
  }
}
`

const createTodoItemDoc = `
mutation CreateTodos($input: [TodoCreateInput!]!) {
  createTodos(input: $input) {
    todos {
      id
      content
      done
    }
  }
}
`

const updateTodoItemDoc = `
mutation UpdateTodos($where: TodoWhere, $update: TodoUpdateInput) {
  updateTodos(where: $where, update: $update) {
    todos {
      id
      content
      done
    }
  }
}
`

const deleteTodoItemDoc = `
mutation DeleteTodos($where: TodoWhere) {
  deleteTodos(where: $where) {
    nodesDeleted
  }
}
`
